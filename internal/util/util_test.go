package util

import (
	"errors"
	"fmt"
	"io"
	"lms_backend/internal/model"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gradeBody struct {
	Grade    *int   `json:"grade" validate:"required,min=0,max=100"`
	Feedback string `json:"feedback" validate:"max=10"`
}

func intPtr(v int) *int { return &v }

func TestValidate_CollectsAllFieldErrors(t *testing.T) {
	err := Validate(gradeBody{Feedback: strings.Repeat("x", 11)})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "grade", verr.Fields[0].Field)
	assert.Equal(t, "is required", verr.Fields[0].Message)
	assert.Equal(t, "feedback", verr.Fields[1].Field)
}

func TestValidate_GradeBounds(t *testing.T) {
	tests := []struct {
		grade int
		ok    bool
	}{
		{-1, false},
		{0, true},
		{100, true},
		{101, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.grade), func(t *testing.T) {
			err := Validate(gradeBody{Grade: intPtr(tt.grade)})
			assert.Equal(t, tt.ok, err == nil, "err = %v", err)
		})
	}
}

func TestValidationError_OrNil(t *testing.T) {
	v := &ValidationError{}
	assert.NoError(t, v.OrNil())
	v.Add("answers", "is required")
	assert.EqualError(t, v.OrNil(), "validation failed: answers: is required")
}

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Email: "a@b.c", Role: model.Teacher}
	user.ID = 42

	token, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, model.Teacher, claims.Role)

	_, err = ParseJWT(token, "other")
	assert.Error(t, err)

	expired, err := GenerateJWT(user, "secret", -time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret")
	assert.Error(t, err)
}

func TestHandleError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		want int
	}{
		{ErrAlreadyEnrolled, http.StatusConflict},
		{ErrCourseFull, http.StatusConflict},
		{fmt.Errorf("load: %w", ErrEnrollmentNotFound), http.StatusNotFound},
		{ErrQuizNotFound, http.StatusNotFound},
		{ErrOwnershipMismatch, http.StatusForbidden},
		{ErrInvalidGrade, http.StatusBadRequest},
		{&ValidationError{Fields: []FieldError{{Field: "x", Message: "y"}}}, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			HandleError(c, tt.err)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestSniffMimeType(t *testing.T) {
	r := strings.NewReader("%PDF-1.4\n")
	mime, err := SniffMimeType(r, AllowedSubmissionMimeTypes)
	require.NoError(t, err)
	assert.Equal(t, MimePDF, mime)
	// 读取后回到开头
	rest, _ := io.ReadAll(r)
	assert.Equal(t, "%PDF-1.4\n", string(rest))

	mime, err = SniffMimeType(strings.NewReader("plain notes"), AllowedSubmissionMimeTypes)
	require.NoError(t, err)
	assert.Equal(t, MimeText, mime)

	_, err = SniffMimeType(strings.NewReader("<html><body>x</body></html>"), []string{MimePDF})
	assert.ErrorIs(t, err, ErrInvalidFileType)
}
