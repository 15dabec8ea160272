package service

import (
	"context"
	"lms_backend/internal/model"
	"lms_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnroll_Success(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, "teacher", model.Teacher)
	student := f.createUser(t, "student", model.Student)
	course := f.createCourse(t, teacher, 5)

	e, err := f.enrollment.Enroll(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, student.ID, e.UserID)
	assert.Equal(t, course.ID, e.CourseID)
	assert.Equal(t, 0, e.Progress)
	assert.Equal(t, model.PaymentFree, e.PaymentStatus)
	assert.Equal(t, fixedNow, e.EnrolledAt)
	assert.Nil(t, e.FinalGrade)
}

func TestEnroll_PaidCourseStartsPending(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, "teacher", model.Teacher)
	student := f.createUser(t, "student", model.Student)
	course := &model.Course{Title: "Paid", InstructorID: teacher.ID, MaxStudents: 3, Price: 49, Published: true}
	require.NoError(t, f.courses.Create(course))

	e := f.enroll(t, student.ID, course.ID)
	assert.Equal(t, model.PaymentPending, e.PaymentStatus)
}

func TestEnroll_AlreadyEnrolled(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, "teacher", model.Teacher)
	student := f.createUser(t, "student", model.Student)
	course := f.createCourse(t, teacher, 5)

	f.enroll(t, student.ID, course.ID)
	_, err := f.enrollment.Enroll(context.Background(), student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)

	count, err := f.enrollments.CountByCourse(course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEnroll_CourseFull(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, "teacher", model.Teacher)
	course := f.createCourse(t, teacher, 2)

	for _, name := range []string{"s1", "s2"} {
		s := f.createUser(t, name, model.Student)
		f.enroll(t, s.ID, course.ID)
	}

	late := f.createUser(t, "s3", model.Student)
	_, err := f.enrollment.Enroll(context.Background(), late.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrCourseFull)
}

func TestEnroll_NotFound(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, "teacher", model.Teacher)
	student := f.createUser(t, "student", model.Student)
	course := f.createCourse(t, teacher, 5)

	_, err := f.enrollment.Enroll(context.Background(), student.ID, course.ID+100)
	assert.ErrorIs(t, err, util.ErrNotFound)

	_, err = f.enrollment.Enroll(context.Background(), student.ID+100, course.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestEnroll_UnpublishedCourseIsHidden(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, "teacher", model.Teacher)
	student := f.createUser(t, "student", model.Student)
	course := &model.Course{Title: "Draft", InstructorID: teacher.ID, MaxStudents: 3}
	require.NoError(t, f.courses.Create(course))

	_, err := f.enrollment.Enroll(context.Background(), student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestUnenroll_Ownership(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, "teacher", model.Teacher)
	owner := f.createUser(t, "owner", model.Student)
	other := f.createUser(t, "other", model.Student)
	course := f.createCourse(t, teacher, 5)
	e := f.enroll(t, owner.ID, course.ID)

	err := f.enrollment.Unenroll(context.Background(), e.ID, Actor{UserID: other.ID, Role: model.Student})
	assert.ErrorIs(t, err, util.ErrOwnershipMismatch)

	require.NoError(t, f.enrollment.Unenroll(context.Background(), e.ID, Actor{UserID: owner.ID, Role: model.Student}))

	err = f.enrollment.Unenroll(context.Background(), e.ID, Actor{UserID: owner.ID, Role: model.Student})
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)

	// 取消后可以重新报名
	f.enroll(t, owner.ID, course.ID)
}

func TestCompleteModule_Progress(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, "teacher", model.Teacher)
	student := f.createUser(t, "student", model.Student)
	course := f.createCourse(t, teacher, 5)
	m1 := f.createAssignment(t, course.ID)
	m2 := f.createQuiz(t, course.ID, "A")
	m3 := f.createAssignment(t, course.ID)
	e := f.enroll(t, student.ID, course.ID)

	ctx := context.Background()
	got, err := f.enrollment.CompleteModule(ctx, e.ID, m1.ID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, 33, got.Progress)
	assert.False(t, got.Completed)

	// 重复完成不影响进度
	got, err = f.enrollment.CompleteModule(ctx, e.ID, m1.ID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, 33, got.Progress)

	_, err = f.enrollment.CompleteModule(ctx, e.ID, m2.ID, student.ID)
	require.NoError(t, err)
	got, err = f.enrollment.CompleteModule(ctx, e.ID, m3.ID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)

	stored, err := f.enrollments.FindByID(e.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Progress)
	assert.Len(t, stored.CompletedModules, 3)
}

func TestCompleteModule_ForeignModule(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, "teacher", model.Teacher)
	student := f.createUser(t, "student", model.Student)
	course := f.createCourse(t, teacher, 5)
	other := f.createCourse(t, teacher, 5)
	foreign := f.createAssignment(t, other.ID)
	e := f.enroll(t, student.ID, course.ID)

	_, err := f.enrollment.CompleteModule(context.Background(), e.ID, foreign.ID, student.ID)
	assert.ErrorIs(t, err, util.ErrModuleNotFound)
}

func TestRoster_RequiresCourseOwner(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, "teacher", model.Teacher)
	stranger := f.createUser(t, "stranger", model.Teacher)
	student := f.createUser(t, "student", model.Student)
	course := f.createCourse(t, teacher, 5)
	f.enroll(t, student.ID, course.ID)

	_, err := f.enrollment.Roster(context.Background(), course.ID, teacherActor(stranger))
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	roster, err := f.enrollment.Roster(context.Background(), course.ID, teacherActor(teacher))
	require.NoError(t, err)
	require.Len(t, roster, 1)
	require.NotNil(t, roster[0].User)
	assert.Equal(t, "student", roster[0].User.Name)
}

func TestEnrollmentReads_HonorContext(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, "teacher", model.Teacher)
	student := f.createUser(t, "student", model.Student)
	course := f.createCourse(t, teacher, 5)
	quiz := f.createQuiz(t, course.ID, "A")
	e := f.enroll(t, student.ID, course.ID)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.enrollment.Roster(ctx, course.ID, teacherActor(teacher))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = f.enrollment.CompleteModule(ctx, e.ID, quiz.ID, student.ID)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUpdatePayment(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, "teacher", model.Teacher)
	student := f.createUser(t, "student", model.Student)
	course := f.createCourse(t, teacher, 5)
	e := f.enroll(t, student.ID, course.ID)

	_, err := f.enrollment.UpdatePayment(context.Background(), e.ID, PaymentUpdateRequest{Status: "REFUNDED"})
	var verr *util.ValidationError
	assert.ErrorAs(t, err, &verr)

	got, err := f.enrollment.UpdatePayment(context.Background(), e.ID, PaymentUpdateRequest{Status: "PAID"})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, got.PaymentStatus)
}
