package header

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/braincards/webapp/session"
)

type recordNav struct{ paths []string }

func (n *recordNav) Navigate(path string) { n.paths = append(n.paths, path) }

type countLocker struct{ locks, unlocks int }

func (l *countLocker) Lock()   { l.locks++ }
func (l *countLocker) Unlock() { l.unlocks++ }

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func newController(t *testing.T, token string) (*Controller, *recordNav, *countLocker, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.ErrorLevel)
	sess := &session.Memory{}
	if token != "" {
		sess.Save(token)
	}
	nav := &recordNav{}
	locker := &countLocker{}
	return New(sess, nav, locker, zap.New(core).Sugar()), nav, locker, logs
}

func TestTokenPresenceMeansLoggedIn(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"email": "ana@example.com", "sub": "user-1"})
	ctrl, _, _, logs := newController(t, token)

	view := ctrl.View()
	assert.True(t, view.LoggedIn)
	assert.Equal(t, "ana@example.com", view.UserName)
	assert.Equal(t, "A", view.Initial)
	assert.Zero(t, logs.Len())
}

func TestDisplayNameFallsBackToSubject(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "user-1"})
	ctrl, _, _, _ := newController(t, token)

	assert.Equal(t, "user-1", ctrl.View().UserName)
}

func TestUndecodableTokenStillLoggedIn(t *testing.T) {
	ctrl, _, _, logs := newController(t, "not-a-jwt")

	view := ctrl.View()
	assert.True(t, view.LoggedIn, "presence alone decides the logged-in state")
	assert.Empty(t, view.UserName)
	assert.Empty(t, view.Initial)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "decode token failed", logs.All()[0].Message)
}

func TestNoTokenMeansLoggedOut(t *testing.T) {
	ctrl, _, _, _ := newController(t, "")

	view := ctrl.View()
	assert.False(t, view.LoggedIn)
	assert.Empty(t, view.UserName)
}

func TestScrollThreshold(t *testing.T) {
	ctrl, _, _, _ := newController(t, "")

	tests := []struct {
		offset int
		want   bool
	}{
		{0, false},
		{20, false},
		{21, true},
		{500, true},
		{5, false},
	}
	for _, tt := range tests {
		ctrl.HandleScroll(tt.offset)
		assert.Equal(t, tt.want, ctrl.View().Scrolled, "offset %d", tt.offset)
	}
}

func TestDropdownToggle(t *testing.T) {
	ctrl, _, _, _ := newController(t, "")

	ctrl.ToggleDropdown()
	assert.True(t, ctrl.View().DropdownOpen)
	ctrl.ToggleDropdown()
	assert.False(t, ctrl.View().DropdownOpen)

	ctrl.ToggleDropdown()
	ctrl.CloseDropdown()
	assert.False(t, ctrl.View().DropdownOpen)
}

func TestDrawerTogglesScrollLock(t *testing.T) {
	ctrl, _, locker, _ := newController(t, "")

	ctrl.ToggleDrawer()
	assert.True(t, ctrl.View().DrawerOpen)
	assert.Equal(t, 1, locker.locks)

	ctrl.ToggleDrawer()
	assert.False(t, ctrl.View().DrawerOpen)
	assert.Equal(t, 1, locker.unlocks)
}

func TestCloseDrawerOnlyUnlocksWhenOpen(t *testing.T) {
	ctrl, _, locker, _ := newController(t, "")

	ctrl.CloseDrawer()
	assert.Zero(t, locker.unlocks)

	ctrl.ToggleDrawer()
	ctrl.CloseDrawer()
	assert.Equal(t, 1, locker.unlocks)
}

func TestUnmountRestoresScroll(t *testing.T) {
	ctrl, _, locker, _ := newController(t, "")

	ctrl.ToggleDrawer()
	ctrl.Unmount()
	assert.Equal(t, 1, locker.unlocks)
}

func TestSignOut(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"email": "ana@example.com"})
	core, _ := observer.New(zapcore.ErrorLevel)
	sess := &session.Memory{}
	sess.Save(token)
	nav := &recordNav{}
	locker := &countLocker{}
	ctrl := New(sess, nav, locker, zap.New(core).Sugar())
	ctrl.ToggleDrawer()

	ctrl.SignOut()

	view := ctrl.View()
	assert.False(t, view.LoggedIn)
	assert.Empty(t, view.UserName)
	assert.False(t, view.DrawerOpen)
	assert.False(t, view.DropdownOpen)
	assert.Equal(t, 1, locker.unlocks)
	_, ok := sess.Token()
	assert.False(t, ok, "stored token cleared")
	assert.Equal(t, []string{"/login"}, nav.paths)
}
