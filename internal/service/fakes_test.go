package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/tutor_center/internal/model"
	"github.com/Freeeeeet/tutor_center/internal/repository"
)

type slotKey struct {
	assistantID int64
	date        string
	label       string
}

// memDB хранилище в памяти с теми же гарантиями, что и Postgres-репозитории:
// все операции сериализованы мьютексом, Book атомарен.
type memDB struct {
	mu        sync.Mutex
	nextID    int64
	centers   map[int64]*model.LearningCenter
	users     map[int64]*model.User
	subjects  map[int64]*model.Subject
	slots     map[slotKey]*model.AvailabilitySlot
	sessions  map[int64]*model.Session
	ratings   map[int64]*model.Rating // по session_id
	conflicts int                     // сколько следующих Book вернут ErrTxConflict
}

func newMemDB() *memDB {
	return &memDB{
		centers:  map[int64]*model.LearningCenter{},
		users:    map[int64]*model.User{},
		subjects: map[int64]*model.Subject{},
		slots:    map[slotKey]*model.AvailabilitySlot{},
		sessions: map[int64]*model.Session{},
		ratings:  map[int64]*model.Rating{},
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

type memCenters struct{ db *memDB }

func (s memCenters) Create(_ context.Context, c *model.LearningCenter) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.centers {
		if existing.Name == c.Name {
			return repository.ErrAlreadyExists
		}
	}
	c.ID = s.db.id()
	cp := *c
	s.db.centers[c.ID] = &cp
	return nil
}

func (s memCenters) GetByID(_ context.Context, id int64) (*model.LearningCenter, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c, ok := s.db.centers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s memCenters) List(_ context.Context) ([]*model.CenterSummary, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []*model.CenterSummary
	for _, c := range s.db.centers {
		sum := &model.CenterSummary{LearningCenter: *c}
		for _, u := range s.db.users {
			if u.InCenter(c.ID) {
				sum.TotalUsers++
			}
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s memCenters) Delete(_ context.Context, id int64) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.centers[id]; !ok {
		return false, nil
	}
	for _, u := range s.db.users {
		if u.InCenter(id) {
			return false, repository.ErrCenterNotEmpty
		}
	}
	delete(s.db.centers, id)
	return true, nil
}

type memUsers struct{ db *memDB }

func (s memUsers) Create(_ context.Context, u *model.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.users {
		sameScope := (u.Role == model.RoleAdmin && existing.Role == model.RoleAdmin) ||
			(u.LearningCenterID != nil && existing.InCenter(*u.LearningCenterID))
		if sameScope && existing.Phone == u.Phone {
			return repository.ErrAlreadyExists
		}
	}
	u.ID = s.db.id()
	u.CreatedAt = time.Now()
	cp := *u
	s.db.users[u.ID] = &cp
	return nil
}

func (s memUsers) withSubjectName(u *model.User) *model.User {
	cp := *u
	cp.SubjectName = nil
	if u.SubjectID != nil {
		if sub, ok := s.db.subjects[*u.SubjectID]; ok {
			name := sub.Name
			cp.SubjectName = &name
		}
	}
	return &cp
}

func (s memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return nil, nil
	}
	return s.withSubjectName(u), nil
}

func (s memUsers) filter(keep func(*model.User) bool) []*model.User {
	var out []*model.User
	for _, u := range s.db.users {
		if keep(u) {
			out = append(out, s.withSubjectName(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s memUsers) ListByCenterAndRole(_ context.Context, centerID int64, role model.Role) ([]*model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.filter(func(u *model.User) bool { return u.InCenter(centerID) && u.Role == role }), nil
}

func (s memUsers) ListAssistantsBySubject(_ context.Context, centerID, subjectID int64) ([]*model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.filter(func(u *model.User) bool {
		return u.InCenter(centerID) && u.Role == model.RoleAssistant && u.SubjectID != nil && *u.SubjectID == subjectID
	}), nil
}

func (s memUsers) UpdateProfile(_ context.Context, id int64, fullname string, subjectID *int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u := s.db.users[id]
	u.Fullname = fullname
	u.SubjectID = subjectID
	return nil
}

func (s memUsers) AdminExists(_ context.Context) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.Role == model.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

type memSubjects struct{ db *memDB }

func (s memSubjects) Create(_ context.Context, sub *model.Subject) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.subjects {
		if existing.LearningCenterID == sub.LearningCenterID && existing.Name == sub.Name {
			return repository.ErrAlreadyExists
		}
	}
	sub.ID = s.db.id()
	cp := *sub
	s.db.subjects[sub.ID] = &cp
	return nil
}

func (s memSubjects) GetByID(_ context.Context, id int64) (*model.Subject, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	sub, ok := s.db.subjects[id]
	if !ok {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (s memSubjects) ListByCenter(_ context.Context, centerID int64) ([]*model.Subject, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []*model.Subject
	for _, sub := range s.db.subjects {
		if sub.LearningCenterID == centerID {
			cp := *sub
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s memSubjects) Rename(_ context.Context, id int64, name string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.subjects[id].Name = name
	return nil
}

type memSlots struct{ db *memDB }

func (s memSlots) Publish(_ context.Context, assistantID int64, date time.Time, labels []string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	day := date.Format(model.DateLayout)
	for k, slot := range s.db.slots {
		if k.assistantID == assistantID && k.date == day && slot.Status == model.SlotStatusAvailable {
			delete(s.db.slots, k)
		}
	}
	for _, label := range labels {
		k := slotKey{assistantID, day, label}
		if _, ok := s.db.slots[k]; ok {
			continue
		}
		s.db.slots[k] = &model.AvailabilitySlot{
			ID:          s.db.id(),
			AssistantID: assistantID,
			Date:        date,
			TimeSlot:    label,
			Status:      model.SlotStatusAvailable,
		}
	}
	return nil
}

func (s memSlots) list(assistantID int64, onlyAvailable bool) []*model.AvailabilitySlot {
	var out []*model.AvailabilitySlot
	for _, slot := range s.db.slots {
		if slot.AssistantID != assistantID {
			continue
		}
		if onlyAvailable && slot.Status != model.SlotStatusAvailable {
			continue
		}
		cp := *slot
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].TimeSlot < out[j].TimeSlot
	})
	return out
}

func (s memSlots) ListByAssistant(_ context.Context, assistantID int64) ([]*model.AvailabilitySlot, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.list(assistantID, false), nil
}

func (s memSlots) ListAvailable(_ context.Context, assistantID int64, limit int) ([]*model.AvailabilitySlot, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := s.list(assistantID, true)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s memSlots) status(assistantID int64, date, label string) model.SlotStatus {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	slot, ok := s.db.slots[slotKey{assistantID, date, label}]
	if !ok {
		return ""
	}
	return slot.Status
}

type memSessions struct{ db *memDB }

func (s memSessions) Book(_ context.Context, studentID, assistantID int64, when time.Time) (*model.Session, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.db.conflicts > 0 {
		s.db.conflicts--
		return nil, repository.ErrTxConflict
	}

	at := model.NormalizeWhen(when)
	date, label := model.SplitWhen(at)
	slot, ok := s.db.slots[slotKey{assistantID, date.Format(model.DateLayout), label}]
	if !ok || slot.Status != model.SlotStatusAvailable {
		return nil, repository.ErrSlotUnavailable
	}
	for _, existing := range s.db.sessions {
		if existing.StudentID == studentID && existing.ScheduledAt.Equal(at) {
			return nil, repository.ErrDuplicateBooking
		}
	}

	slot.Status = model.SlotStatusBooked
	session := &model.Session{
		ID:          s.db.id(),
		StudentID:   studentID,
		AssistantID: assistantID,
		ScheduledAt: at,
		Status:      model.SessionStatusBooked,
		CreatedAt:   time.Now(),
	}
	s.db.sessions[session.ID] = session
	cp := *session
	return &cp, nil
}

func (s memSessions) GetByID(_ context.Context, id int64) (*model.Session, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	session, ok := s.db.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *session
	return &cp, nil
}

func (s memSessions) MarkAttendance(_ context.Context, id int64, attendance model.Attendance) (*model.Session, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	session, ok := s.db.sessions[id]
	if !ok {
		return nil, nil
	}
	session.Attendance = &attendance
	session.Status = model.SessionStatusCompleted
	cp := *session
	return &cp, nil
}

func (s memSessions) inPeriod(at time.Time, period model.Period, now time.Time) bool {
	if period == model.PeriodPast {
		return at.Before(now)
	}
	return !at.Before(now)
}

func (s memSessions) assistantView(session *model.Session) *model.AssistantSessionView {
	student := s.db.users[session.StudentID]
	return &model.AssistantSessionView{
		SessionID:    session.ID,
		ScheduledAt:  session.ScheduledAt,
		Status:       session.Status,
		StudentID:    student.ID,
		StudentName:  student.Fullname,
		StudentPhone: student.Phone,
		StudentPhoto: student.PhotoURL,
		Attendance:   session.Attendance,
	}
}

func (s memSessions) ListByAssistant(_ context.Context, assistantID int64, period model.Period, now time.Time) ([]*model.AssistantSessionView, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []*model.AssistantSessionView
	for _, session := range s.db.sessions {
		if session.AssistantID == assistantID && s.inPeriod(session.ScheduledAt, period, model.NormalizeWhen(now)) {
			out = append(out, s.assistantView(session))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

func (s memSessions) ListAtInstant(_ context.Context, assistantID int64, at time.Time) ([]*model.AssistantSessionView, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []*model.AssistantSessionView
	for _, session := range s.db.sessions {
		if session.AssistantID == assistantID && session.ScheduledAt.Equal(at) {
			out = append(out, s.assistantView(session))
		}
	}
	return out, nil
}

func (s memSessions) ListByStudent(_ context.Context, studentID int64, period model.Period, now time.Time) ([]*model.StudentSessionView, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []*model.StudentSessionView
	for _, session := range s.db.sessions {
		if session.StudentID != studentID || !s.inPeriod(session.ScheduledAt, period, model.NormalizeWhen(now)) {
			continue
		}
		assistant := s.db.users[session.AssistantID]
		v := &model.StudentSessionView{
			SessionID:      session.ID,
			ScheduledAt:    session.ScheduledAt,
			Status:         session.Status,
			AssistantID:    assistant.ID,
			AssistantName:  assistant.Fullname,
			AssistantPhoto: assistant.PhotoURL,
			Attendance:     session.Attendance,
		}
		if r, ok := s.db.ratings[session.ID]; ok {
			cp := *r
			v.MyRating = &cp
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

type memRatings struct{ db *memDB }

func (s memRatings) Create(_ context.Context, r *model.Rating) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.ratings[r.SessionID]; ok {
		return repository.ErrAlreadyRated
	}
	r.ID = s.db.id()
	cp := *r
	s.db.ratings[r.SessionID] = &cp
	return nil
}

func (s memRatings) GetBySessionID(_ context.Context, sessionID int64) (*model.Rating, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	r, ok := s.db.ratings[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s memRatings) AverageForAssistant(_ context.Context, assistantID int64) (float64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var sum float64
	var n int
	for sessionID, r := range s.db.ratings {
		if s.db.sessions[sessionID].AssistantID == assistantID {
			sum += r.Mean()
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return model.RoundRating(sum / float64(n)), nil
}

// plainHasher хранит пароль как есть: bcrypt проверяется в пакете auth
type plainHasher struct{}

func (plainHasher) HashPassword(p string) (string, error) { return "plain:" + p, nil }

// world центр с предметами, ассистентами и студентами для тестов сервисов
type world struct {
	db       *memDB
	centers  memCenters
	users    memUsers
	subjects memSubjects
	slots    memSlots
	sessions memSessions
	ratings  memRatings

	center  *model.LearningCenter
	math    *model.Subject
	physics *model.Subject
}

func newWorld() *world {
	db := newMemDB()
	w := &world{
		db:       db,
		centers:  memCenters{db},
		users:    memUsers{db},
		subjects: memSubjects{db},
		slots:    memSlots{db},
		sessions: memSessions{db},
		ratings:  memRatings{db},
	}
	ctx := context.Background()

	w.center = &model.LearningCenter{Name: "North"}
	_ = w.centers.Create(ctx, w.center)
	w.math = &model.Subject{LearningCenterID: w.center.ID, Name: "Math"}
	_ = w.subjects.Create(ctx, w.math)
	w.physics = &model.Subject{LearningCenterID: w.center.ID, Name: "Physics"}
	_ = w.subjects.Create(ctx, w.physics)
	return w
}

func (w *world) user(role model.Role, centerID int64, subject *model.Subject) *model.User {
	w.db.mu.Lock()
	phone := fmt.Sprintf("+998%07d", w.db.nextID+1)
	w.db.mu.Unlock()

	u := &model.User{
		Fullname:         string(role) + " user",
		Phone:            phone,
		PasswordHash:     "plain:secret",
		Role:             role,
		LearningCenterID: &centerID,
	}
	if role == model.RoleAdmin {
		u.LearningCenterID = nil
	}
	if subject != nil {
		u.SubjectID = &subject.ID
	}
	if err := w.users.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}
