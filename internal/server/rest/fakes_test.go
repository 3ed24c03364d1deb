package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/levelup/internal/logging"
	"github.com/dmitrijs2005/levelup/internal/server/auth"
	"github.com/dmitrijs2005/levelup/internal/server/metrics"
	"github.com/dmitrijs2005/levelup/internal/server/models"
	"github.com/dmitrijs2005/levelup/internal/server/services"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

// Each fake embeds its interface; calling a method a test did not stub
// panics, which the recoverer turns into a 500.

type fakeUsers struct {
	UserService
	createFn   func(services.CreateUserRequest) (*models.User, error)
	registerFn func(name, email, credential string) (*models.User, error)
	loginFn    func(email, credential string) (*services.LoginResult, error)
	getFn      func(id int64) (*models.User, error)
	byEmailFn  func(email string) (*models.User, error)
	listFn     func() ([]*models.User, error)
	deleteFn   func(id int64) error
}

func (f *fakeUsers) CreateUser(_ context.Context, req services.CreateUserRequest) (*models.User, error) {
	return f.createFn(req)
}
func (f *fakeUsers) Register(_ context.Context, name, email, credential string) (*models.User, error) {
	return f.registerFn(name, email, credential)
}
func (f *fakeUsers) Login(_ context.Context, email, credential string) (*services.LoginResult, error) {
	return f.loginFn(email, credential)
}
func (f *fakeUsers) GetUser(_ context.Context, id int64) (*models.User, error) { return f.getFn(id) }
func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return f.byEmailFn(email)
}
func (f *fakeUsers) ListUsers(context.Context) ([]*models.User, error) { return f.listFn() }
func (f *fakeUsers) DeleteUser(_ context.Context, id int64) error     { return f.deleteFn(id) }

type fakeCatalog struct {
	CatalogService
	createFn func(services.ProductInput) (*models.Product, error)
	getFn    func(id int64) (*models.Product, error)
	activeFn func() ([]*models.Product, error)
	byCatFn  func(categoryID int64) ([]*models.Product, error)
	deleteFn func(id int64) error
}

func (f *fakeCatalog) CreateProduct(_ context.Context, in services.ProductInput) (*models.Product, error) {
	return f.createFn(in)
}
func (f *fakeCatalog) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	return f.getFn(id)
}
func (f *fakeCatalog) ListActiveProducts(context.Context) ([]*models.Product, error) {
	return f.activeFn()
}
func (f *fakeCatalog) ListProductsByCategory(_ context.Context, id int64) ([]*models.Product, error) {
	return f.byCatFn(id)
}
func (f *fakeCatalog) DeleteProduct(_ context.Context, id int64) error { return f.deleteFn(id) }

type fakeCarts struct {
	CartService
	addFn    func(userID, productID int64, quantity int) (*models.CartLine, error)
	updateFn func(userID, productID int64, quantity int) (*models.CartLine, error)
	removeFn func(userID, productID int64) error
	clearFn  func(userID int64) error
}

func (f *fakeCarts) AddToCart(_ context.Context, userID, productID int64, quantity int) (*models.CartLine, error) {
	return f.addFn(userID, productID, quantity)
}
func (f *fakeCarts) UpdateQuantity(_ context.Context, userID, productID int64, quantity int) (*models.CartLine, error) {
	return f.updateFn(userID, productID, quantity)
}
func (f *fakeCarts) RemoveLine(_ context.Context, userID, productID int64) error {
	return f.removeFn(userID, productID)
}
func (f *fakeCarts) ClearCart(_ context.Context, userID int64) error { return f.clearFn(userID) }

type fakeFavorites struct {
	FavoriteService
	addFn    func(userID, productID int64) (*models.FavoriteLine, error)
	removeFn func(userID, productID int64) error
}

func (f *fakeFavorites) AddFavorite(_ context.Context, userID, productID int64) (*models.FavoriteLine, error) {
	return f.addFn(userID, productID)
}
func (f *fakeFavorites) RemoveFavorite(_ context.Context, userID, productID int64) error {
	return f.removeFn(userID, productID)
}

type fakeOrders struct {
	OrderService
	placeFn  func(services.PlaceOrderRequest) (*models.Order, error)
	getFn    func(ctx context.Context, id int64) (*models.Order, error)
	updateFn func(id int64, req services.UpdateOrderRequest) (*models.Order, error)
	deleteFn func(id int64) error
}

func (f *fakeOrders) PlaceOrder(_ context.Context, req services.PlaceOrderRequest) (*models.Order, error) {
	return f.placeFn(req)
}
func (f *fakeOrders) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return f.getFn(ctx, id)
}
func (f *fakeOrders) UpdateOrder(_ context.Context, id int64, req services.UpdateOrderRequest) (*models.Order, error) {
	return f.updateFn(id, req)
}
func (f *fakeOrders) DeleteOrder(_ context.Context, id int64) error { return f.deleteFn(id) }

type fakeLifecycle struct {
	LifecycleService
	calls []string
}

func (f *fakeLifecycle) DeactivateUser(_ context.Context, id int64) (*models.User, error) {
	f.calls = append(f.calls, "deactivate")
	return &models.User{ID: id, Active: false}, nil
}
func (f *fakeLifecycle) ActivateUser(_ context.Context, id int64) (*models.User, error) {
	f.calls = append(f.calls, "activate")
	return &models.User{ID: id, Active: true}, nil
}
func (f *fakeLifecycle) DiscontinueProduct(_ context.Context, id int64) (*models.Product, error) {
	f.calls = append(f.calls, "discontinue")
	return &models.Product{ID: id, Discontinued: true}, nil
}
func (f *fakeLifecycle) ReactivateProduct(_ context.Context, id int64) (*models.Product, error) {
	f.calls = append(f.calls, "reactivate")
	return &models.Product{ID: id}, nil
}

type fakeImages struct {
	ImageService
	uploadFn   func(productID int64) (*services.ImageUpload, error)
	downloadFn func(productID int64) (string, error)
}

func (f *fakeImages) PresignUpload(_ context.Context, productID int64) (*services.ImageUpload, error) {
	return f.uploadFn(productID)
}
func (f *fakeImages) PresignDownload(_ context.Context, productID int64) (string, error) {
	return f.downloadFn(productID)
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func newTestRouter(h *Handlers, timeout time.Duration) http.Handler {
	return NewRouter(h, metrics.New(), logging.Nop{}, RouterConfig{JWTSecret: testSecret, RequestTimeout: timeout})
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func bearer(t *testing.T, isAdmin bool) string {
	t.Helper()
	tok, err := auth.GenerateToken(1, isAdmin, testSecret, time.Minute)
	require.NoError(t, err)
	return "Bearer " + tok
}
