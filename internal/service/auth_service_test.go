package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/repository"
	"alcyxob/strength-planner/internal/testutil"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func (e *testEnv) auth() AuthService {
	return NewAuthService(e.st.Users, NewUserDataPurger(e.st, logger.NewNop()), testSecret, time.Hour, logger.NewNop())
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	auth := env.auth()

	user, err := auth.Register(ctx, "Ada", " Ada@Example.com ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	_, err = auth.Register(ctx, "Ada Again", "ada@example.com", "another password")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	token, loggedIn, err := auth.Login(ctx, "ADA@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Empty(t, loggedIn.PasswordHash)

	userID, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, _, err = auth.Login(ctx, "ada@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = auth.Login(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestRegisterValidation(t *testing.T) {
	auth := newTestEnv(t).auth()
	tests := []struct {
		name, userName, email, password, field string
	}{
		{"missing name", "", "a@example.com", "long enough", "name"},
		{"bad email", "A", "not-an-email", "long enough", "email"},
		{"short password", "A", "a@example.com", "short", "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Register(context.Background(), tt.userName, tt.email, tt.password)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestParseTokenRejectsForgedAndExpired(t *testing.T) {
	env := newTestEnv(t)
	auth := env.auth()

	sign := func(secret string, method jwt.SigningMethod, exp time.Time) string {
		token := jwt.NewWithClaims(method, &jwtClaims{
			UserID:           env.userID.Hex(),
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
		})
		s, err := token.SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	valid := sign(testSecret, jwt.SigningMethodHS256, time.Now().Add(time.Hour))
	id, err := auth.ParseToken(valid)
	require.NoError(t, err)
	assert.Equal(t, env.userID, id)

	for name, token := range map[string]string{
		"wrong secret": sign("other-secret", jwt.SigningMethodHS256, time.Now().Add(time.Hour)),
		"expired":      sign(testSecret, jwt.SigningMethodHS256, time.Now().Add(-time.Minute)),
		"garbage":      "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := auth.ParseToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestDeleteAccountPurgesEverything(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	auth := env.auth()

	m := env.newMesocycle(t, 2, 2)
	day := env.days(t, env.weeks(t, m.ID)[0])[0]
	ex := testutil.SeedExercise(t, env.st, env.userID, "Squat", env.muscle(t, "quads"))
	env.addExercise(t, m.ID, day.ID, ex.ID, 3)
	w, err := env.workouts.StartWorkout(ctx, env.userID, StartWorkoutInput{TrainingDayID: &day.ID})
	require.NoError(t, err)
	env.logSet(t, w.ID, LogSetInput{ExerciseID: ex.ID, Reps: 5, Weight: 100})
	env.record(t, jan(14), domain.MetricBodyweight, 80)

	// Another user's data must survive.
	otherID := testutil.SeedUser(t, env.st, "other@example.com")
	otherEx := testutil.SeedExercise(t, env.st, otherID, "Press", env.muscle(t, "shoulders"))

	require.NoError(t, auth.DeleteAccount(ctx, env.userID))

	_, err = env.st.Users.GetByID(ctx, env.userID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = env.st.Mesocycles.GetByID(ctx, m.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = env.st.TrainingDays.GetByID(ctx, day.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = env.st.Exercises.GetByID(ctx, ex.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = env.st.Workouts.GetByID(ctx, w.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = env.st.DailyMetrics.Latest(ctx, env.userID, domain.MetricBodyweight)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.st.Exercises.GetByID(ctx, otherEx.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, auth.DeleteAccount(ctx, env.userID), ErrNotFound)
}
