package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/levelup/internal/common"
	"github.com/dmitrijs2005/levelup/internal/dbx"
	"github.com/dmitrijs2005/levelup/internal/server/events"
	"github.com/dmitrijs2005/levelup/internal/server/models"
	"github.com/dmitrijs2005/levelup/internal/server/repositories/carts"
	"github.com/dmitrijs2005/levelup/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/levelup/internal/server/repositories/orders"
	"github.com/dmitrijs2005/levelup/internal/server/repositories/products"
	"github.com/dmitrijs2005/levelup/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

// memStore backs every fake repository. The constraint checks mirror the
// schema: unique email, foreign keys, composite keys.
type memStore struct {
	mu sync.Mutex

	nextID     int64
	users      map[int64]*models.User
	products   map[int64]*models.Product
	categories map[int64]*models.Category
	tags       map[int64][]*models.Tag
	images     map[int64][]*models.ProductImage
	carts      map[models.CartKey]*models.CartLine
	favorites  map[models.FavoriteKey]*models.FavoriteLine
	orders     map[int64]*models.Order

	// fail injects an error for the named operation, e.g. "orders.AddItem".
	fail map[string]error
	// now is advanced on every write so timestamps are strictly ordered.
	now time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[int64]*models.User{},
		products:   map[int64]*models.Product{},
		categories: map[int64]*models.Category{},
		tags:       map[int64][]*models.Tag{},
		images:     map[int64][]*models.ProductImage{},
		carts:      map[models.CartKey]*models.CartLine{},
		favorites:  map[models.FavoriteKey]*models.FavoriteLine{},
		orders:     map[int64]*models.Order{},
		fail:       map[string]error{},
		now:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func (s *memStore) err(op string) error {
	return s.fail[op]
}

func (s *memStore) addUser(name, email string, active bool) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{ID: s.id(), Name: name, Email: email, Credential: "hash", Active: active, CreatedAt: s.tick()}
	s.users[u.ID] = u
	return cloneUser(u)
}

func (s *memStore) addProduct(title string, price float64, discontinued bool) *models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	p := &models.Product{ID: s.id(), Title: title, Price: price, Currency: "CLP", Stock: 10,
		Discontinued: discontinued, CreatedAt: now, UpdatedAt: now}
	s.products[p.ID] = p
	return cloneProduct(p)
}

func cloneUser(u *models.User) *models.User       { c := *u; return &c }
func cloneProduct(p *models.Product) *models.Product { c := *p; return &c }

// --- users ---

type memUsers struct{ s *memStore }

var _ users.Repository = (*memUsers)(nil)

func (r *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.err("users.Create"); err != nil {
		return nil, err
	}
	for _, e := range r.s.users {
		if e.Email == u.Email {
			return nil, common.ErrorConflict
		}
	}
	c := cloneUser(u)
	c.ID = r.s.id()
	c.CreatedAt = r.s.tick()
	r.s.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.err("users.GetByID"); err != nil {
		return nil, err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(u), nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.err("users.GetByEmail"); err != nil {
		return nil, err
	}
	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) List(_ context.Context, active *bool) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.User{}
	for _, u := range r.s.users {
		if active == nil || u.Active == *active {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memUsers) Update(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.users[u.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	for _, e := range r.s.users {
		if e.ID != u.ID && e.Email == u.Email {
			return nil, common.ErrorConflict
		}
	}
	cur.Name, cur.Email, cur.Credential, cur.IsAdmin = u.Name, u.Email, u.Credential, u.IsAdmin
	return cloneUser(cur), nil
}

func (r *memUsers) SetActive(_ context.Context, id int64, active bool) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.Active = active
	return cloneUser(u), nil
}

func (r *memUsers) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.users, id)
	for k := range r.s.carts {
		if k.UserID == id {
			delete(r.s.carts, k)
		}
	}
	for k := range r.s.favorites {
		if k.UserID == id {
			delete(r.s.favorites, k)
		}
	}
	for oid, o := range r.s.orders {
		if o.UserID == id {
			delete(r.s.orders, oid)
		}
	}
	return nil
}

// --- products ---

type memProducts struct{ s *memStore }

var _ products.Repository = (*memProducts)(nil)

func (r *memProducts) Create(_ context.Context, p *models.Product) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.CategoryID != nil {
		if _, ok := r.s.categories[*p.CategoryID]; !ok {
			return nil, common.ErrorNotFound
		}
	}
	c := cloneProduct(p)
	c.ID = r.s.id()
	c.CreatedAt = r.s.tick()
	c.UpdatedAt = c.CreatedAt
	r.s.products[c.ID] = c
	return cloneProduct(c), nil
}

func (r *memProducts) GetByID(_ context.Context, id int64) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.err("products.GetByID"); err != nil {
		return nil, err
	}
	p, ok := r.s.products[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneProduct(p), nil
}

func (r *memProducts) GetForShare(ctx context.Context, id int64) (*models.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *memProducts) List(_ context.Context, f models.ProductFilter) ([]*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Product{}
	for _, p := range r.s.products {
		if f.Discontinued != nil && p.Discontinued != *f.Discontinued {
			continue
		}
		if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memProducts) Update(_ context.Context, p *models.Product) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[p.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if p.CategoryID != nil {
		if _, ok := r.s.categories[*p.CategoryID]; !ok {
			return nil, common.ErrorNotFound
		}
	}
	c := cloneProduct(p)
	c.CreatedAt = cur.CreatedAt
	c.Discontinued = cur.Discontinued
	c.UpdatedAt = r.s.tick()
	r.s.products[p.ID] = c
	return cloneProduct(c), nil
}

func (r *memProducts) SetDiscontinued(_ context.Context, id int64, discontinued bool) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	p.Discontinued = discontinued
	p.UpdatedAt = r.s.tick()
	return cloneProduct(p), nil
}

func (r *memProducts) SetImage(_ context.Context, id int64, image string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return common.ErrorNotFound
	}
	p.Image = image
	return nil
}

func (r *memProducts) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return common.ErrorNotFound
	}
	for _, o := range r.s.orders {
		for _, it := range o.Items {
			if it.ProductID == id {
				return common.ErrorConflict
			}
		}
	}
	delete(r.s.products, id)
	for k := range r.s.carts {
		if k.ProductID == id {
			delete(r.s.carts, k)
		}
	}
	for k := range r.s.favorites {
		if k.ProductID == id {
			delete(r.s.favorites, k)
		}
	}
	return nil
}

func (r *memProducts) ListCategories(context.Context) ([]*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Category{}
	for _, c := range r.s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memProducts) ListTags(_ context.Context, productID int64) ([]*models.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]*models.Tag{}, r.s.tags[productID]...), nil
}

func (r *memProducts) AddImage(_ context.Context, productID int64, key string) (*models.ProductImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.err("products.AddImage"); err != nil {
		return nil, err
	}
	if _, ok := r.s.products[productID]; !ok {
		return nil, common.ErrorNotFound
	}
	img := &models.ProductImage{ID: r.s.id(), ProductID: productID, StorageKey: key, CreatedAt: r.s.tick()}
	r.s.images[productID] = append(r.s.images[productID], img)
	return img, nil
}

func (r *memProducts) ListImages(_ context.Context, productID int64) ([]*models.ProductImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]*models.ProductImage{}, r.s.images[productID]...), nil
}

// --- carts ---

type memCarts struct{ s *memStore }

var _ carts.Repository = (*memCarts)(nil)

func (r *memCarts) line(l *models.CartLine) *models.CartLine {
	c := *l
	if p, ok := r.s.products[l.ProductID]; ok {
		c.Title, c.Image, c.Price, c.Currency = p.Title, p.Image, p.Price, p.Currency
	}
	return &c
}

func (r *memCarts) ListByUser(_ context.Context, userID int64) ([]*models.CartLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.CartLine{}
	for k, l := range r.s.carts {
		if k.UserID == userID {
			out = append(out, r.line(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.Before(out[j].AddedAt) })
	return out, nil
}

func (r *memCarts) Add(_ context.Context, key models.CartKey, quantity int) (*models.CartLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[key.UserID]; !ok {
		return nil, common.ErrorNotFound
	}
	if _, ok := r.s.products[key.ProductID]; !ok {
		return nil, common.ErrorNotFound
	}
	now := r.s.tick()
	l, ok := r.s.carts[key]
	if !ok {
		l = &models.CartLine{CartKey: key, AddedAt: now}
		r.s.carts[key] = l
	}
	l.Quantity += quantity
	l.UpdatedAt = now
	return r.line(l), nil
}

func (r *memCarts) UpdateQuantity(_ context.Context, key models.CartKey, quantity int) (*models.CartLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.carts[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	l.Quantity = quantity
	l.UpdatedAt = r.s.tick()
	return r.line(l), nil
}

func (r *memCarts) Delete(_ context.Context, key models.CartKey) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.carts[key]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.carts, key)
	return nil
}

func (r *memCarts) DeleteByUser(_ context.Context, userID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for k := range r.s.carts {
		if k.UserID == userID {
			delete(r.s.carts, k)
			n++
		}
	}
	return n, nil
}

// --- favorites ---

type memFavorites struct{ s *memStore }

var _ favorites.Repository = (*memFavorites)(nil)

func (r *memFavorites) filter(keep func(models.FavoriteKey) bool) []*models.FavoriteLine {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.FavoriteLine{}
	for k, f := range r.s.favorites {
		if keep(k) {
			c := *f
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.Before(out[j].AddedAt) })
	return out
}

func (r *memFavorites) List(context.Context) ([]*models.FavoriteLine, error) {
	return r.filter(func(models.FavoriteKey) bool { return true }), nil
}

func (r *memFavorites) ListByUser(_ context.Context, userID int64) ([]*models.FavoriteLine, error) {
	return r.filter(func(k models.FavoriteKey) bool { return k.UserID == userID }), nil
}

func (r *memFavorites) ListByProduct(_ context.Context, productID int64) ([]*models.FavoriteLine, error) {
	return r.filter(func(k models.FavoriteKey) bool { return k.ProductID == productID }), nil
}

func (r *memFavorites) Add(_ context.Context, key models.FavoriteKey) (*models.FavoriteLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.favorites[key]
	if !ok {
		f = &models.FavoriteLine{FavoriteKey: key, AddedAt: r.s.tick()}
		r.s.favorites[key] = f
	}
	c := *f
	return &c, nil
}

func (r *memFavorites) Get(_ context.Context, key models.FavoriteKey) (*models.FavoriteLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.favorites[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *f
	return &c, nil
}

func (r *memFavorites) Delete(_ context.Context, key models.FavoriteKey) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.favorites[key]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.favorites, key)
	return nil
}

// --- orders ---

type memOrders struct{ s *memStore }

var _ orders.Repository = (*memOrders)(nil)

func cloneOrder(o *models.Order) *models.Order {
	c := *o
	c.Items = append([]models.OrderItem{}, o.Items...)
	return &c
}

func (r *memOrders) CreateHeader(_ context.Context, userID int64, status string, total float64) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.err("orders.CreateHeader"); err != nil {
		return nil, err
	}
	o := &models.Order{ID: r.s.id(), UserID: userID, Status: status, Total: total, CreatedAt: r.s.tick(), Items: []models.OrderItem{}}
	r.s.orders[o.ID] = o
	return cloneOrder(o), nil
}

func (r *memOrders) AddItem(_ context.Context, it models.OrderItem) (*models.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.err("orders.AddItem"); err != nil {
		return nil, err
	}
	o, ok := r.s.orders[it.OrderID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	it.ID = r.s.id()
	o.Items = append(o.Items, it)
	return &it, nil
}

func (r *memOrders) GetByID(_ context.Context, id int64) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneOrder(o), nil
}

func (r *memOrders) list(keep func(*models.Order) bool) []*models.Order {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Order{}
	for _, o := range r.s.orders {
		if keep(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memOrders) List(context.Context) ([]*models.Order, error) {
	return r.list(func(*models.Order) bool { return true }), nil
}

func (r *memOrders) ListByUser(_ context.Context, userID int64) ([]*models.Order, error) {
	return r.list(func(o *models.Order) bool { return o.UserID == userID }), nil
}

func (r *memOrders) ListItems(_ context.Context, orderID int64) ([]models.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[orderID]
	if !ok {
		return []models.OrderItem{}, nil
	}
	return append([]models.OrderItem{}, o.Items...), nil
}

func (r *memOrders) UpdateHeader(_ context.Context, id int64, status string, total float64) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	o.Status, o.Total = status, total
	return cloneOrder(o), nil
}

func (r *memOrders) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.orders, id)
	return nil
}

// --- manager ---

type fakeRepoManager struct {
	s *memStore
	// txBound counts repositories handed out for a *sql.Tx.
	txBound int
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) track(db dbx.DBTX) {
	if _, ok := db.(*sql.Tx); ok {
		m.txBound++
	}
}

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository {
	m.track(db)
	return &memUsers{m.s}
}

func (m *fakeRepoManager) Products(db dbx.DBTX) products.Repository {
	m.track(db)
	return &memProducts{m.s}
}

func (m *fakeRepoManager) Carts(db dbx.DBTX) carts.Repository {
	m.track(db)
	return &memCarts{m.s}
}

func (m *fakeRepoManager) Favorites(db dbx.DBTX) favorites.Repository {
	m.track(db)
	return &memFavorites{m.s}
}

func (m *fakeRepoManager) Orders(db dbx.DBTX) orders.Repository {
	m.track(db)
	return &memOrders{m.s}
}

// --- publisher ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func ptr[T any](v T) *T { return &v }

func cartKey(userID, productID int64) models.CartKey {
	return models.CartKey{UserID: userID, ProductID: productID}
}

func favKey(userID, productID int64) models.FavoriteKey {
	return models.FavoriteKey{UserID: userID, ProductID: productID}
}
