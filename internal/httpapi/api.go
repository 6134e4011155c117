package httpapi

import (
	"context"

	"github.com/picknship/backend/internal/cache"
	"github.com/picknship/backend/internal/rates"
	"github.com/picknship/backend/internal/reconcile"
	"github.com/picknship/backend/internal/repo"
	"github.com/picknship/backend/internal/tiendanube"
)

type StoreDirectory interface {
	GetStore(ctx context.Context, storeID string) (repo.Store, error)
	UpsertStore(ctx context.Context, s repo.Store) error
	MarkShippingConfigured(ctx context.Context, storeID string) error
	ListStores(ctx context.Context) ([]repo.Store, error)
}

type OrderLister interface {
	ListRecentSnapshots(ctx context.Context, limit int) ([]repo.Snapshot, error)
}

type Reconciler interface {
	Reconcile(ctx context.Context, s repo.Snapshot) (bool, reconcile.Diff, error)
}

type Notifier interface {
	OrderReconciled(ctx context.Context, isNew bool, o repo.Snapshot, d reconcile.Diff)
	StoreInstalled(ctx context.Context, s repo.Store)
}

type RateQuoter interface {
	Quote(ctx context.Context, req rates.Request) []rates.Quote
}

// Platform is the upstream e-commerce platform as consumed here: OAuth,
// canonical order fetch, shipping-method provisioning.
type Platform interface {
	AuthorizeURL() string
	ExchangeCode(ctx context.Context, code string) (tiendanube.Token, error)
	FetchOrder(ctx context.Context, storeID, orderID, accessToken string) (repo.Snapshot, error)
	EnsureShippingMethod(ctx context.Context, storeID, accessToken string, zipCodes []string) error
}

type Deps struct {
	Stores     StoreDirectory
	Orders     OrderLister
	Reconciler Reconciler
	Quoter     RateQuoter
	Notify     Notifier
	Platform   Platform
	Cache      *cache.StoresCache

	// ShippingZips restricts the provisioned shipping method; comes
	// from the rate engine's eligible zone.
	ShippingZips []string

	APIKey  string
	Logf    func(string, ...any)
	Version string
}

type API struct {
	d Deps
}

func New(d Deps) *API {
	if d.Logf == nil {
		d.Logf = func(string, ...any) {}
	}
	if d.Cache == nil {
		d.Cache = cache.New()
	}
	return &API{d: d}
}

// lookupStore checks the in-memory cache before the directory.
func (a *API) lookupStore(ctx context.Context, storeID string) (repo.Store, error) {
	if s, ok := a.d.Cache.Get(storeID); ok {
		return s, nil
	}
	s, err := a.d.Stores.GetStore(ctx, storeID)
	if err != nil {
		return repo.Store{}, err
	}
	a.d.Cache.Set(storeID, s)
	return s, nil
}
