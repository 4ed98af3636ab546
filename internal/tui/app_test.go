package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/shopfront/internal/guard"
	"github.com/naveenspark/shopfront/pkg/client"
)

func TestAppTabSwitching(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"1", guard.PathHome},
		{"2", guard.PathBlog},
		{"3", guard.PathInventory},
		{"4", guard.PathSignIn},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			h := newHarness(t)
			h.goTo(guard.PathHome)
			h.press(tc.key)
			if h.at() != tc.want {
				t.Errorf("after key %q: at %s, want %s", tc.key, h.at(), tc.want)
			}
		})
	}
}

func TestAppGJumpsGoThroughGuard(t *testing.T) {
	tests := []struct {
		name   string
		signIn string
		jump   string
		want   string
	}{
		{"anonymous checkout", "", "c", guard.PathSignIn},
		{"anonymous dashboard", "", "d", guard.PathAdminLogin},
		{"anonymous files", "", "f", guard.PathAdminLogin},
		{"user dashboard", "user", "d", guard.PathHome},
		{"user logs", "user", "l", guard.PathHome},
		{"admin dashboard", "admin", "d", guard.PathAdminDashboard},
		{"admin inventory", "admin", "i", guard.PathAdminInventory},
		{"admin logs", "admin", "l", guard.PathAdminLogs},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			switch tc.signIn {
			case "user":
				h.signIn(t, shopper)
			case "admin":
				h.signIn(t, owner)
			}
			h.goTo(guard.PathHome)
			h.press("g", tc.jump)
			if h.at() != tc.want {
				t.Errorf("at %s, want %s", h.at(), tc.want)
			}
			if h.app.gPending {
				t.Error("g prefix should be consumed")
			}
		})
	}
}

func TestAppUnknownPathLandsHome(t *testing.T) {
	h := newHarness(t)
	h.goTo("/no/such/page")
	if h.at() != guard.PathHome {
		t.Errorf("at %s", h.at())
	}
}

func TestAppGlobalQuitOnQ(t *testing.T) {
	h := newHarness(t)
	h.goTo(guard.PathHome)
	_, cmd := h.app.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command on 'q', got nil")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestAppTypingOnSignInDoesNotNavigate(t *testing.T) {
	h := newHarness(t)
	h.goTo(guard.PathSignIn)
	h.typeText("q1234")
	if h.at() != guard.PathSignIn {
		t.Fatalf("typing navigated to %s", h.at())
	}
	if got := h.app.signIn.login.value(labelEmail); got != "q1234" {
		t.Errorf("email = %q", got)
	}
}

func TestAppSignInThenCheckoutRenders(t *testing.T) {
	h := newHarness(t)
	h.goTo(guard.PathInventory)
	h.press("enter") // Rice wine, in stock
	if h.at() != guard.PathSignIn {
		t.Fatalf("anonymous buy should land on sign-in, at %s", h.at())
	}

	h.typeText(shopper.Email)
	h.press("tab")
	h.typeText(testPassword)
	h.press("enter")

	if h.at() != guard.PathHome {
		t.Fatalf("after sign-in at %s, want home", h.at())
	}
	if h.app.user == nil || h.app.user.Email != shopper.Email {
		t.Fatalf("header user = %+v", h.app.user)
	}
	if !strings.Contains(h.app.View(), shopper.Name) {
		t.Error("header should show the signed-in user")
	}

	h.press("3", "enter")
	if h.at() != guard.PathCheckout {
		t.Fatalf("signed-in buy should render checkout, at %s", h.at())
	}
	if h.app.checkout.product == nil || h.app.checkout.product.ID != "p1" {
		t.Errorf("checkout product = %+v", h.app.checkout.product)
	}
}

func TestAppSignInInvalidCredentials(t *testing.T) {
	h := newHarness(t)
	h.goTo(guard.PathSignIn)
	h.typeText(shopper.Email)
	h.press("tab")
	h.typeText("wrong")
	h.press("enter")

	if h.at() != guard.PathSignIn {
		t.Fatalf("at %s", h.at())
	}
	if h.app.signIn.status != "invalid email or password" {
		t.Errorf("status = %q", h.app.signIn.status)
	}
	if h.app.user != nil {
		t.Error("no session should exist")
	}
}

func TestAppSignInResultAfterLeavingView(t *testing.T) {
	h := newHarness(t)
	h.goTo(guard.PathSignIn)
	h.typeText(shopper.Email)
	h.press("tab")
	h.typeText(testPassword)

	model, login := h.app.Update(keyMsg("enter"))
	h.app = model.(App)
	if login == nil || !h.app.signIn.pending {
		t.Fatal("enter should start the sign-in")
	}
	h.press("esc")
	if h.at() != guard.PathHome {
		t.Fatalf("esc should go home, at %s", h.at())
	}

	h.run(login)
	if h.app.signIn.pending {
		t.Error("sign-in still pending after its result arrived")
	}
	if h.at() != guard.PathHome {
		t.Errorf("late result should not move the user, at %s", h.at())
	}
	if h.app.user == nil || h.app.user.Email != shopper.Email {
		t.Fatalf("header user = %+v", h.app.user)
	}

	h.press("L")
	h.goTo(guard.PathSignIn)
	if strings.Contains(h.app.View(), "signing in...") {
		t.Error("reopened sign-in still shows the old request")
	}
	h.typeText(shopper.Email)
	h.press("tab")
	h.typeText(testPassword)
	h.press("enter")
	if h.app.user == nil || h.at() != guard.PathHome {
		t.Errorf("second sign-in: user=%+v at=%s", h.app.user, h.at())
	}
}

func TestAppFailedSignInAfterLeavingView(t *testing.T) {
	h := newHarness(t)
	h.goTo(guard.PathSignIn)
	h.typeText(shopper.Email)
	h.press("tab")
	h.typeText("wrong")

	model, login := h.app.Update(keyMsg("enter"))
	h.app = model.(App)
	h.press("esc")
	h.run(login)

	h.goTo(guard.PathSignIn)
	if h.app.signIn.pending {
		t.Fatal("sign-in still pending")
	}
	model, again := h.app.Update(keyMsg("enter"))
	h.app = model.(App)
	if again == nil {
		t.Error("the form should submit again")
	}
}

func TestAppAdminSignInResultAfterLeavingView(t *testing.T) {
	h := newHarness(t)
	h.goTo(guard.PathAdminLogin)
	h.typeText(owner.Email)
	h.press("tab")
	h.typeText(testPassword)

	model, login := h.app.Update(keyMsg("enter"))
	h.app = model.(App)
	h.press("esc")
	h.run(login)

	if h.app.adminLogin.pending {
		t.Error("admin sign-in still pending")
	}
	if h.at() != guard.PathHome {
		t.Errorf("at %s, want home", h.at())
	}
	if !h.app.user.IsAdmin() {
		t.Errorf("header user = %+v", h.app.user)
	}
}

func TestAppRegisterPasswordMismatch(t *testing.T) {
	h := newHarness(t)
	h.goTo(guard.PathSignIn)
	h.press("ctrl+t")
	h.typeText("Park")
	h.press("tab")
	h.typeText("park@shop.test")
	h.press("tab")
	h.typeText("one")
	h.press("tab")
	h.typeText("two")
	h.press("enter")

	if h.app.signIn.status != "passwords do not match" {
		t.Errorf("status = %q", h.app.signIn.status)
	}
	if h.app.signIn.pending {
		t.Error("mismatch must not start a request")
	}
}

func TestAppRegisterSuccess(t *testing.T) {
	h := newHarness(t)
	h.goTo(guard.PathSignIn)
	h.press("ctrl+t")
	h.typeText("Park")
	h.press("tab")
	h.typeText("park@shop.test")
	h.press("tab")
	h.typeText("pw")
	h.press("tab")
	h.typeText("pw")
	h.press("enter")

	if h.at() != guard.PathHome {
		t.Fatalf("at %s (status %q)", h.at(), h.app.signIn.status)
	}
	if h.app.user == nil || h.app.user.Name != "Park" {
		t.Errorf("user = %+v", h.app.user)
	}
}

func TestAppAdminLoginRejectsNonAdmin(t *testing.T) {
	h := newHarness(t)
	h.goTo(guard.PathAdminLogin)
	h.typeText(shopper.Email)
	h.press("tab")
	h.typeText(testPassword)
	h.press("enter")

	if h.at() != guard.PathAdminLogin {
		t.Fatalf("at %s", h.at())
	}
	if !strings.Contains(h.app.adminLogin.status, "not an administrator") {
		t.Errorf("status = %q", h.app.adminLogin.status)
	}
	if h.auth.IsAuthenticated(t.Context()) {
		t.Error("non-admin session must not be kept")
	}
}

func TestAppAdminLoginLandsOnDashboard(t *testing.T) {
	h := newHarness(t)
	h.goTo(guard.PathAdminLogin)
	h.typeText(owner.Email)
	h.press("tab")
	h.typeText(testPassword)
	h.press("enter")

	if h.at() != guard.PathAdminDashboard {
		t.Fatalf("at %s (status %q)", h.at(), h.app.adminLogin.status)
	}
	if h.app.dashboard.stats == nil || h.app.dashboard.stats.TotalProducts != 3 {
		t.Errorf("stats = %+v", h.app.dashboard.stats)
	}
	if !strings.Contains(h.app.View(), "[admin]") {
		t.Error("header should mark the admin role")
	}
}

func TestAppLogoutFromAdminAreaLandsOnAdminLogin(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, owner)
	h.goTo(guard.PathAdminLogs)
	h.press("L")

	if h.at() != guard.PathAdminLogin {
		t.Errorf("at %s", h.at())
	}
	if h.auth.IsAuthenticated(t.Context()) {
		t.Error("session should be cleared")
	}
	// Protected views now redirect.
	h.goTo(guard.PathAdminDashboard)
	if h.at() != guard.PathAdminLogin {
		t.Errorf("dashboard after logout at %s", h.at())
	}
}

func TestAppLogoutFromStoreLandsHome(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, shopper)
	h.goTo(guard.PathBlog)
	h.press("L")
	if h.at() != guard.PathHome {
		t.Errorf("at %s", h.at())
	}
	h.goTo(guard.PathCheckout)
	if h.at() != guard.PathSignIn {
		t.Errorf("checkout after logout at %s", h.at())
	}
}

func TestCheckoutQuantityClamp(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, shopper)
	h.goTo(guard.PathInventory)
	h.press("enter") // Rice wine, stock 3

	h.press("-")
	if h.app.checkout.quantity != 1 {
		t.Errorf("quantity below 1: %d", h.app.checkout.quantity)
	}
	h.press("+", "+", "+", "+")
	if h.app.checkout.quantity != 3 {
		t.Errorf("quantity = %d, want clamp at stock 3", h.app.checkout.quantity)
	}
	if !strings.Contains(h.app.checkout.status, "only 3 left") {
		t.Errorf("status = %q", h.app.checkout.status)
	}
	if h.app.checkout.total() != 3*4500 {
		t.Errorf("total = %v", h.app.checkout.total())
	}
}

func TestCheckoutSoldOutNotSelectable(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, shopper)
	h.goTo(guard.PathInventory)
	h.press("j", "enter") // Lager, stock 0
	if h.at() != guard.PathInventory {
		t.Errorf("at %s", h.at())
	}
	if !strings.Contains(h.app.inventory.status, "out of stock") {
		t.Errorf("status = %q", h.app.inventory.status)
	}
}

func TestCheckoutSubmitDisabledWhilePending(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, shopper)
	h.goTo(guard.PathInventory)
	h.press("enter")

	model, first := h.app.Update(keyMsg("enter"))
	h.app = model.(App)
	if first == nil || !h.app.checkout.pending {
		t.Fatal("first enter should start the order")
	}
	model, second := h.app.Update(keyMsg("enter"))
	h.app = model.(App)
	if second != nil {
		t.Error("second enter while pending should do nothing")
	}

	h.run(first)
	if len(h.shop.orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(h.shop.orders))
	}
	if h.app.checkout.placed == nil {
		t.Error("order should be marked placed")
	}
	got := h.shop.orders[0]
	if got.ProductID != "p1" || got.Quantity != 1 || got.TotalPrice != 4500 {
		t.Errorf("order = %+v", got)
	}
}

func TestCheckoutRetryReusesIdempotencyKey(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, shopper)
	h.shop.orderErr = &client.HTTPError{StatusCode: 503, Message: "try later"}
	h.goTo(guard.PathInventory)
	h.press("enter")

	h.press("enter")
	if !strings.Contains(h.app.checkout.status, "try later") {
		t.Errorf("status = %q", h.app.checkout.status)
	}
	h.shop.orderErr = nil
	h.press("enter")

	if len(h.shop.orderKeys) != 2 {
		t.Fatalf("attempts = %d", len(h.shop.orderKeys))
	}
	if h.shop.orderKeys[0] == "" || h.shop.orderKeys[0] != h.shop.orderKeys[1] {
		t.Errorf("keys = %v, want one reused key", h.shop.orderKeys)
	}

	// A new checkout gets a new key.
	h.press("enter") // back to inventory
	h.press("enter")
	h.press("enter")
	if len(h.shop.orderKeys) != 3 || h.shop.orderKeys[2] == h.shop.orderKeys[0] {
		t.Errorf("keys = %v", h.shop.orderKeys)
	}
}

func TestCheckoutWithoutProductGoesToInventory(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, shopper)
	h.goTo(guard.PathCheckout)
	if h.at() != guard.PathInventory {
		t.Errorf("at %s", h.at())
	}
}

func TestInventoryCategoryFilter(t *testing.T) {
	h := newHarness(t)
	h.goTo(guard.PathInventory)
	if got := len(h.app.inventory.visible()); got != 3 {
		t.Fatalf("all = %d", got)
	}
	h.press("c") // first category alphabetically: beer
	items := h.app.inventory.visible()
	if len(items) != 1 || items[0].Category != "beer" {
		t.Errorf("filtered = %+v", items)
	}
}

func TestBlogOpenPostAndBack(t *testing.T) {
	h := newHarness(t)
	h.goTo(guard.PathBlog)
	h.press("j", "enter")
	if h.at() != guard.PathBlogPost || h.app.route.Param("id") != "b2" {
		t.Fatalf("at %s %v", h.at(), h.app.route.Params)
	}
	if h.app.post.post == nil || h.app.post.post.Title != "Notes" {
		t.Fatalf("post = %+v", h.app.post.post)
	}
	h.press("esc")
	if h.at() != guard.PathBlog {
		t.Errorf("at %s", h.at())
	}
}

func TestBlogNewPostRequiresSignIn(t *testing.T) {
	h := newHarness(t)
	h.goTo(guard.PathBlog)
	h.press("n")
	if h.at() != guard.PathSignIn {
		t.Errorf("at %s", h.at())
	}
}

func TestBlogWriteNewPost(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, shopper)
	h.goTo(guard.PathBlog)
	h.press("n")
	if !h.app.isEditing() {
		t.Fatal("new post should open the editor")
	}
	h.typeText("Title")
	h.press("tab")
	h.typeText("Body q1")
	h.press("ctrl+s")
	if h.at() != guard.PathBlog {
		t.Fatalf("at %s (status %q)", h.at(), h.app.post.status)
	}
	last := h.shop.posts[len(h.shop.posts)-1]
	if last.Title != "Title" || last.Content != "Body q1" {
		t.Errorf("created %+v", last)
	}
}

func TestBlogOnlyAuthorCanEdit(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, shopper)
	h.goTo(postPath("b2")) // written by the admin
	h.press("e")
	if h.app.post.editing() {
		t.Error("non-author should not enter edit mode")
	}

	h.goTo(postPath("b1"))
	h.press("e")
	if !h.app.post.editing() {
		t.Fatal("author should enter edit mode")
	}
	h.typeText("!")
	h.press("ctrl+s")
	if h.shop.posts[0].Title != "Hello!" {
		t.Errorf("title = %q", h.shop.posts[0].Title)
	}
}

func TestBlogDeleteNeedsConfirm(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, shopper)
	h.goTo(postPath("b1"))
	h.press("d", "n")
	if len(h.shop.deleted) != 0 {
		t.Fatal("deleted without confirmation")
	}
	h.press("d", "y")
	if len(h.shop.deleted) != 1 || h.shop.deleted[0] != "b1" {
		t.Errorf("deleted = %v", h.shop.deleted)
	}
	if h.at() != guard.PathBlog {
		t.Errorf("at %s", h.at())
	}
}

func TestBlogMissingPostShowsError(t *testing.T) {
	h := newHarness(t)
	h.goTo(postPath("zzz"))
	if h.app.post.status != "post not found" {
		t.Errorf("status = %q", h.app.post.status)
	}
}

func TestAdminInventoryCreateProduct(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, owner)
	h.goTo(guard.PathAdminInventory)
	h.press("n")
	h.typeText("Wine")
	h.press("tab")
	h.typeText("wine")
	h.press("tab")
	h.typeText("abc")
	h.press("tab")
	h.typeText("5")
	h.press("ctrl+s")
	if !strings.Contains(h.app.adminInv.status, "price") {
		t.Fatalf("bad price accepted, status %q", h.app.adminInv.status)
	}

	h.press("tab", "tab", "tab", "tab") // stock -> description -> name -> category -> price
	h.press("backspace", "backspace", "backspace")
	h.typeText("12000")
	h.press("ctrl+s")

	if h.app.adminInv.inForm {
		t.Fatalf("form still open: %q", h.app.adminInv.status)
	}
	if len(h.app.adminInv.products) != 4 {
		t.Errorf("products = %d, want reload with 4", len(h.app.adminInv.products))
	}
	last := h.shop.products[len(h.shop.products)-1]
	if last.Name != "Wine" || last.Price != 12000 || last.Stock != 5 {
		t.Errorf("created %+v", last)
	}
}

func TestAdminInventoryDelete(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, owner)
	h.goTo(guard.PathAdminInventory)
	h.press("j", "d", "y")
	if len(h.shop.deleted) != 1 || h.shop.deleted[0] != "p2" {
		t.Errorf("deleted = %v", h.shop.deleted)
	}
	if len(h.app.adminInv.products) != 2 {
		t.Errorf("products = %d", len(h.app.adminInv.products))
	}
}

func TestFilesOpenResolvesURL(t *testing.T) {
	var opened string
	orig := openURL
	openURL = func(u string) error { opened = u; return nil }
	t.Cleanup(func() { openURL = orig })

	h := newHarness(t)
	h.signIn(t, owner)
	h.goTo(guard.PathAdminFiles)
	h.press("o")
	if opened != "http://shop.test/uploads/menu.pdf" {
		t.Errorf("opened %q", opened)
	}
}

func TestFilesUploadByPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "price-list.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := newHarness(t)
	h.signIn(t, owner)
	h.goTo(guard.PathAdminFiles)
	h.press("u")
	if !h.app.isEditing() {
		t.Fatal("path input should capture keys")
	}
	h.typeText(path)
	h.press("enter")

	if len(h.shop.uploaded) != 1 || h.shop.uploaded[0] != "price-list.csv" {
		t.Fatalf("uploaded = %v (status %q)", h.shop.uploaded, h.app.files.status)
	}
	if len(h.app.files.files) != 2 || h.app.files.files[0].FileName != "price-list.csv" {
		t.Errorf("files = %+v", h.app.files.files)
	}
}

func TestFilesUploadFinishesAfterLeavingView(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.txt")
	if err := os.WriteFile(path, []byte("soju\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := newHarness(t)
	h.signIn(t, owner)
	h.goTo(guard.PathAdminFiles)
	h.press("u")
	h.typeText(path)
	model, upload := h.app.Update(keyMsg("enter"))
	h.app = model.(App)
	if !h.app.files.uploading {
		t.Fatal("enter should start the upload")
	}

	h.press("1")
	h.run(upload)
	if h.at() != guard.PathHome {
		t.Fatalf("at %s", h.at())
	}
	if h.app.files.uploading {
		t.Error("upload still marked in flight")
	}
	if len(h.shop.uploaded) != 1 {
		t.Errorf("uploaded = %v", h.shop.uploaded)
	}
}

func TestFilesUploadMissingFile(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, owner)
	h.goTo(guard.PathAdminFiles)
	h.press("u")
	h.typeText(filepath.Join(t.TempDir(), "nope.txt"))
	h.press("enter")
	if !strings.HasPrefix(h.app.files.status, "upload failed") {
		t.Errorf("status = %q", h.app.files.status)
	}
}

func TestLogsToggle(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, owner)
	h.goTo(guard.PathAdminLogs)
	if len(h.app.logs.chat) != 1 {
		t.Fatalf("chat = %+v", h.app.logs.chat)
	}
	h.press("t")
	if h.app.logs.tab != logsDownload || len(h.app.logs.downloads) != 1 {
		t.Errorf("tab=%d downloads=%+v", h.app.logs.tab, h.app.logs.downloads)
	}
	if !strings.Contains(h.app.View(), "menu.pdf") {
		t.Error("download log should render")
	}
}

func TestHomeLoadError(t *testing.T) {
	h := newHarness(t)
	h.shop.listErr = errors.Join(client.ErrNetwork, errors.New("dial tcp: refused"))
	h.goTo(guard.PathHome)
	if h.app.home.err != "could not reach the server" {
		t.Errorf("err = %q", h.app.home.err)
	}
}

func TestAppHelpOverlay(t *testing.T) {
	h := newHarness(t)
	h.goTo(guard.PathHome)
	h.press("?")
	if !h.app.helpOpen {
		t.Fatal("help should open")
	}
	h.press("3")
	if h.at() != guard.PathHome {
		t.Error("help overlay should capture keys")
	}
	h.press("esc")
	if h.app.helpOpen {
		t.Error("esc should close help")
	}
}
