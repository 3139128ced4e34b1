package repository

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Freeeeeet/tutor_center/internal/migrations"
	"github.com/Freeeeeet/tutor_center/internal/model"
)

// newTestPool подключается к TEST_DB_DSN и пересоздаёт схему.
// Без TEST_DB_DSN тесты хранилища пропускаются.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("set dialect: %v", err)
	}
	goose.SetBaseFS(migrations.FS)
	if err := goose.ResetContext(ctx, db, "."); err != nil {
		t.Fatalf("reset migrations: %v", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	return pool
}

type fixture struct {
	centers  *CenterRepository
	users    *UserRepository
	subjects *SubjectRepository
	slots    *AvailabilityRepository
	sessions *SessionRepository
	ratings  *RatingRepository
	stats    *StatsRepository

	center    *model.LearningCenter
	subject   *model.Subject
	assistant *model.User
	student   *model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	pool := newTestPool(t)
	ctx := context.Background()

	slots := NewAvailabilityRepository(pool)
	f := &fixture{
		centers:  NewCenterRepository(pool),
		users:    NewUserRepository(pool),
		subjects: NewSubjectRepository(pool),
		slots:    slots,
		sessions: NewSessionRepository(pool, slots),
		ratings:  NewRatingRepository(pool),
		stats:    NewStatsRepository(pool),
	}

	f.center = &model.LearningCenter{Name: "Center One"}
	if err := f.centers.Create(ctx, f.center); err != nil {
		t.Fatalf("create center: %v", err)
	}
	f.subject = &model.Subject{LearningCenterID: f.center.ID, Name: "Math"}
	if err := f.subjects.Create(ctx, f.subject); err != nil {
		t.Fatalf("create subject: %v", err)
	}
	f.assistant = f.createUser(t, "+1000", model.RoleAssistant)
	f.student = f.createUser(t, "+2000", model.RoleStudent)

	return f
}

func (f *fixture) createUser(t *testing.T, phone string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{
		Fullname:         "User " + phone,
		Phone:            phone,
		PasswordHash:     "hash",
		Role:             role,
		LearningCenterID: &f.center.ID,
		SubjectID:        &f.subject.ID,
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", phone, err)
	}
	return u
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestUserPhoneUniquePerCenter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dup := &model.User{Fullname: "Dup", Phone: "+1000", PasswordHash: "x", Role: model.RoleStudent, LearningCenterID: &f.center.ID}
	if err := f.users.Create(ctx, dup); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	other := &model.LearningCenter{Name: "Center Two"}
	if err := f.centers.Create(ctx, other); err != nil {
		t.Fatal(err)
	}
	dup.LearningCenterID = &other.ID
	if err := f.users.Create(ctx, dup); err != nil {
		t.Fatalf("same phone in another center must be allowed: %v", err)
	}

	got, err := f.users.FindByPhoneInCenter(ctx, f.center.ID, "+1000")
	if err != nil || got == nil || got.ID != f.assistant.ID {
		t.Fatalf("FindByPhoneInCenter = %+v, %v", got, err)
	}
	if got.SubjectName == nil || *got.SubjectName != "Math" {
		t.Fatalf("subject name not joined: %+v", got.SubjectName)
	}
}

func TestPublishMergesAndKeepsBookedSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := day(t, "2024-01-10")

	if err := f.slots.Publish(ctx, f.assistant.ID, date, []string{"09:00", "10:00"}); err != nil {
		t.Fatal(err)
	}
	when := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	if _, err := f.sessions.Book(ctx, f.student.ID, f.assistant.ID, when); err != nil {
		t.Fatalf("book: %v", err)
	}

	// 10:00 пропадает, 09:00 остаётся занятым, 11:00 добавляется
	if err := f.slots.Publish(ctx, f.assistant.ID, date, []string{"09:00", "11:00"}); err != nil {
		t.Fatal(err)
	}

	slots, err := f.slots.ListByAssistant(ctx, f.assistant.ID)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]model.SlotStatus{}
	for _, s := range slots {
		got[s.TimeSlot] = s.Status
	}
	want := map[string]model.SlotStatus{"09:00": model.SlotStatusBooked, "11:00": model.SlotStatusAvailable}
	if len(got) != len(want) {
		t.Fatalf("slots = %v, want %v", got, want)
	}
	for label, status := range want {
		if got[label] != status {
			t.Errorf("slot %s = %q, want %q", label, got[label], status)
		}
	}
}

func TestBookConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.slots.Publish(ctx, f.assistant.ID, day(t, "2024-01-10"), []string{"09:00"}); err != nil {
		t.Fatal(err)
	}

	const n = 8
	students := make([]*model.User, n)
	for i := range students {
		students[i] = f.createUser(t, "+3"+string(rune('0'+i)), model.RoleStudent)
	}

	when := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.sessions.Book(ctx, students[i].ID, f.assistant.ID, when)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrSlotUnavailable):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("succeeded = %d, want 1", succeeded)
	}
}

func TestBookDuplicateRollsBackSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := day(t, "2024-01-10")

	other := f.createUser(t, "+1001", model.RoleAssistant)
	if err := f.slots.Publish(ctx, f.assistant.ID, date, []string{"09:00"}); err != nil {
		t.Fatal(err)
	}
	if err := f.slots.Publish(ctx, other.ID, date, []string{"09:00"}); err != nil {
		t.Fatal(err)
	}

	when := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	if _, err := f.sessions.Book(ctx, f.student.ID, f.assistant.ID, when); err != nil {
		t.Fatal(err)
	}
	if _, err := f.sessions.Book(ctx, f.student.ID, other.ID, when); !errors.Is(err, ErrDuplicateBooking) {
		t.Fatalf("expected ErrDuplicateBooking, got %v", err)
	}

	available, err := f.slots.ListAvailable(ctx, other.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(available) != 1 {
		t.Fatalf("slot of the second assistant must stay available, got %d", len(available))
	}
}

func TestAttendanceAndRating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.slots.Publish(ctx, f.assistant.ID, day(t, "2024-01-10"), []string{"09:00"}); err != nil {
		t.Fatal(err)
	}
	session, err := f.sessions.Book(ctx, f.student.ID, f.assistant.ID, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	updated, err := f.sessions.MarkAttendance(ctx, session.ID, model.AttendancePresent)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != model.SessionStatusCompleted || updated.Attendance == nil || *updated.Attendance != model.AttendancePresent {
		t.Fatalf("unexpected session after attendance: %+v", updated)
	}

	rating := &model.Rating{SessionID: session.ID, Scores: model.Scores{Knowledge: 5, Communication: 5, Patience: 4, Engagement: 4, ProblemSolving: 2}}
	if err := f.ratings.Create(ctx, rating); err != nil {
		t.Fatal(err)
	}
	if err := f.ratings.Create(ctx, &model.Rating{SessionID: session.ID, Scores: model.Scores{Knowledge: 1, Communication: 1, Patience: 1, Engagement: 1, ProblemSolving: 1}}); !errors.Is(err, ErrAlreadyRated) {
		t.Fatalf("expected ErrAlreadyRated, got %v", err)
	}

	avg, err := f.ratings.AverageForAssistant(ctx, f.assistant.ID)
	if err != nil {
		t.Fatal(err)
	}
	if avg != 4 {
		t.Fatalf("avg = %v, want 4", avg)
	}

	views, err := f.sessions.ListByStudent(ctx, f.student.ID, model.PeriodPast, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 1 || views[0].MyRating == nil || views[0].MyRating.Knowledge != 5 {
		t.Fatalf("unexpected student sessions: %+v", views)
	}

	stats, err := f.stats.AssistantStats(ctx, f.center.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 1 || stats[0].TotalSessions != 1 || stats[0].AvgRating != 4 {
		t.Fatalf("unexpected assistant stats: %+v", stats)
	}
}

func TestDeleteCenter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.centers.Delete(ctx, f.center.ID); !errors.Is(err, ErrCenterNotEmpty) {
		t.Fatalf("expected ErrCenterNotEmpty, got %v", err)
	}

	empty := &model.LearningCenter{Name: "Empty"}
	if err := f.centers.Create(ctx, empty); err != nil {
		t.Fatal(err)
	}
	deleted, err := f.centers.Delete(ctx, empty.ID)
	if err != nil || !deleted {
		t.Fatalf("Delete(empty) = %v, %v", deleted, err)
	}
	deleted, err = f.centers.Delete(ctx, empty.ID)
	if err != nil || deleted {
		t.Fatalf("Delete(missing) = %v, %v", deleted, err)
	}
}
