// Package header holds the navigation header's view state: logged-in
// display, the scroll style threshold and the two menu toggles.
package header

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/braincards/webapp/session"
)

// scrollThreshold is the page offset past which the header switches to its
// solid style.
const scrollThreshold = 20

type Navigator interface {
	Navigate(path string)
}

// ScrollLocker suspends page scrolling while the mobile drawer is open.
type ScrollLocker interface {
	Lock()
	Unlock()
}

// NopScrollLocker satisfies ScrollLocker where no page scroll exists.
type NopScrollLocker struct{}

func (NopScrollLocker) Lock()   {}
func (NopScrollLocker) Unlock() {}

type Controller struct {
	mu           sync.Mutex
	loggedIn     bool
	userName     string
	scrolled     bool
	dropdownOpen bool
	drawerOpen   bool

	session session.Store
	nav     Navigator
	scroll  ScrollLocker
	log     *zap.SugaredLogger
}

// New reads the token once. Presence alone means logged in; the claims are
// decoded only to show a name.
func New(sess session.Store, nav Navigator, scroll ScrollLocker, log *zap.SugaredLogger) *Controller {
	c := &Controller{session: sess, nav: nav, scroll: scroll, log: log}
	token, ok := sess.Token()
	c.loggedIn = ok
	if ok {
		name, err := session.DisplayName(token)
		if err != nil {
			log.Errorw("decode token failed", "err", err)
		} else {
			c.userName = name
		}
	}
	return c
}

// HandleScroll updates the style threshold from the current page offset.
func (c *Controller) HandleScroll(offset int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scrolled = offset > scrollThreshold
}

func (c *Controller) ToggleDropdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropdownOpen = !c.dropdownOpen
}

func (c *Controller) CloseDropdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropdownOpen = false
}

// ToggleDrawer flips the mobile drawer; page scrolling is suspended while
// it is open and restored when it closes.
func (c *Controller) ToggleDrawer() {
	c.mu.Lock()
	c.drawerOpen = !c.drawerOpen
	open := c.drawerOpen
	c.mu.Unlock()
	if open {
		c.scroll.Lock()
	} else {
		c.scroll.Unlock()
	}
}

func (c *Controller) CloseDrawer() {
	c.mu.Lock()
	wasOpen := c.drawerOpen
	c.drawerOpen = false
	c.mu.Unlock()
	if wasOpen {
		c.scroll.Unlock()
	}
}

// Unmount restores scrolling if the drawer was still open.
func (c *Controller) Unmount() {
	c.CloseDrawer()
}

// SignOut clears the stored token and navigates to the login screen.
func (c *Controller) SignOut() {
	c.mu.Lock()
	c.loggedIn = false
	c.userName = ""
	wasOpen := c.drawerOpen
	c.drawerOpen = false
	c.dropdownOpen = false
	c.mu.Unlock()
	if wasOpen {
		c.scroll.Unlock()
	}
	c.session.Clear()
	c.nav.Navigate("/login")
}

// View is the render snapshot consumed by the header template.
type View struct {
	LoggedIn     bool
	UserName     string
	Initial      string
	Scrolled     bool
	DropdownOpen bool
	DrawerOpen   bool
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	initial := ""
	if c.userName != "" {
		initial = strings.ToUpper(string([]rune(c.userName)[0]))
	}
	return View{
		LoggedIn:     c.loggedIn,
		UserName:     c.userName,
		Initial:      initial,
		Scrolled:     c.scrolled,
		DropdownOpen: c.dropdownOpen,
		DrawerOpen:   c.drawerOpen,
	}
}
