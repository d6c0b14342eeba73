package service

import (
	"testing"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRegisterCreatesUserAndDefaultCategories(t *testing.T) {
	f := setup(t)
	token, user, err := f.auth.Register(f.ctx, RegisterInput{
		Username: "  Lan.Nguyen ",
		Email:    "Lan@Example.com",
		Password: "matkhau",
		Fullname: "Nguyễn Lan",
	})
	require.NoError(t, err)
	assert.Equal(t, "lan.nguyen", user.Username)
	assert.Equal(t, "lan@example.com", user.Email)
	assert.NotEqual(t, "matkhau", user.Password)

	claims, err := utils.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	var n int64
	require.NoError(t, f.db.Model(&domain.Category{}).Where("user_id = ?", user.ID).Count(&n).Error)
	assert.EqualValues(t, len(domain.DefaultCategories), n)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	f := setup(t)
	f.user(t, "minh")

	_, _, err := f.auth.Register(f.ctx, RegisterInput{Username: "MINH", Email: "other@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, _, err = f.auth.Register(f.ctx, RegisterInput{Username: "other", Email: "MINH@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	var n int64
	require.NoError(t, f.db.Model(&domain.User{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestRegisterLosingUniqueIndexRace(t *testing.T) {
	f := setup(t)

	// Another signup for the same username inserts between the uniqueness check and ours
	armed := true
	err := f.db.Callback().Create().Before("gorm:create").Register("test:rival_signup", func(tx *gorm.DB) {
		if !armed || tx.Statement.Table != "users" {
			return
		}
		armed = false
		rival := domain.User{Username: "an", Email: "rival@example.com", Password: "x", Role: "user"}
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Create(&rival).Error)
	})
	require.NoError(t, err)

	_, _, err = f.auth.Register(f.ctx, RegisterInput{Username: "an", Email: "an@example.com", Password: "secret1"})
	assert.False(t, armed)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	f := setup(t)
	_, _, err := f.auth.Register(f.ctx, RegisterInput{Username: "hoa", Email: "hoa@example.com", Password: "12345"})
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, _, err = f.auth.Register(f.ctx, RegisterInput{Username: "h", Email: "hoa@example.com", Password: "123456"})
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, _, err = f.auth.Register(f.ctx, RegisterInput{Username: "hoa", Email: "not-an-email", Password: "123456"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	var n int64
	require.NoError(t, f.db.Model(&domain.User{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestLogin(t *testing.T) {
	f := setup(t)
	id := f.user(t, "tuan")

	_, u, err := f.auth.Login(f.ctx, "Tuan", "secret1")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)

	_, u, err = f.auth.Login(f.ctx, "tuan@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)

	_, _, err = f.auth.Login(f.ctx, "tuan", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = f.auth.Login(f.ctx, "nobody", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfileAndPassword(t *testing.T) {
	f := setup(t)
	id := f.user(t, "an")
	f.user(t, "binh")

	name, avatar := "Trần An", "https://cdn.example.com/a.png"
	u, err := f.auth.UpdateProfile(f.ctx, id, ProfileInput{Fullname: &name, Avatar: &avatar})
	require.NoError(t, err)
	assert.Equal(t, name, u.Fullname)
	assert.Equal(t, avatar, u.Avatar)

	taken := "binh@example.com"
	_, err = f.auth.UpdateProfile(f.ctx, id, ProfileInput{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailTaken)

	assert.ErrorIs(t, f.auth.ChangePassword(f.ctx, id, "bad", "newpass"), ErrInvalidCredentials)
	assert.ErrorIs(t, f.auth.ChangePassword(f.ctx, id, "secret1", "123"), ErrWeakPassword)
	require.NoError(t, f.auth.ChangePassword(f.ctx, id, "secret1", "newpass"))
	_, _, err = f.auth.Login(f.ctx, "an", "newpass")
	require.NoError(t, err)
}
