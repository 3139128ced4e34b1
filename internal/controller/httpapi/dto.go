package httpapi

type loginRequest struct {
	Phone            string `json:"phone" validate:"required"`
	Password         string `json:"password" validate:"required"`
	LearningCenterID *int64 `json:"learning_center_id" validate:"omitempty,gt=0"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type updateProfileRequest struct {
	Fullname  *string `json:"fullname" validate:"omitempty,min=1,max=200"`
	SubjectID *int64  `json:"subject_id" validate:"omitempty,gt=0"`
}

type createCenterRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type createManagerRequest struct {
	Fullname string `json:"fullname" validate:"required,max=200"`
	Phone    string `json:"phone" validate:"required,max=32"`
	Password string `json:"password" validate:"required,min=6"`
}

type createUserRequest struct {
	Fullname  string `json:"fullname" validate:"required,max=200"`
	Phone     string `json:"phone" validate:"required,max=32"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"role" validate:"required,oneof=assistant student"`
	SubjectID *int64 `json:"subject_id" validate:"omitempty,gt=0"`
}

type subjectRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type publishRequest struct {
	Date      string   `json:"date" validate:"required"`
	TimeSlots []string `json:"time_slots" validate:"required,dive,required"`
}

type attendanceRequest struct {
	Attendance string `json:"attendance" validate:"required"`
}

type bookRequest struct {
	AssistantID int64  `json:"assistant_id" validate:"required,gt=0"`
	DateTime    string `json:"datetime" validate:"required"`
}

// Баллы проверяются сервисом: ошибка диапазона должна иметь код INVALID_SCORE
type rateRequest struct {
	SessionID      int64   `json:"session_id" validate:"required,gt=0"`
	Knowledge      int     `json:"knowledge"`
	Communication  int     `json:"communication"`
	Patience       int     `json:"patience"`
	Engagement     int     `json:"engagement"`
	ProblemSolving int     `json:"problem_solving"`
	Comments       *string `json:"comments" validate:"omitempty,max=2000"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        any    `json:"user"`
}
