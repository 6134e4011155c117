package repo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func sampleStore() Store {
	return Store{
		StoreID:            "999",
		Name:               "Tienda Test",
		Domain:             "tiendatest.mitiendanube.com",
		Email:              "owner@tiendatest.com",
		AccessToken:        "tok-abc",
		InstalledAt:        tNow(),
		ShippingConfigured: true,
	}
}

func storeRows(s Store) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"store_id", "name", "domain", "email", "access_token", "installed_at", "shipping_configured",
	}).AddRow(s.StoreID, s.Name, s.Domain, s.Email, s.AccessToken, s.InstalledAt, s.ShippingConfigured)
}

func Test_UpsertStore_Success(t *testing.T) {
	s := sampleStore()

	m, _ := pgxmock.NewPool()
	defer m.Close()
	m.ExpectExec(`INSERT INTO stores`).
		WithArgs(s.StoreID, s.Name, s.Domain, s.Email, s.AccessToken, s.InstalledAt.UTC(), s.ShippingConfigured).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	r := &StoresRepo{Pool: m, qTimeout: 2 * time.Second}
	require.NoError(t, r.UpsertStore(context.Background(), s))
	require.NoError(t, m.ExpectationsWereMet())
}

func Test_UpsertStore_BadKey_And_StorageError(t *testing.T) {
	r := &StoresRepo{qTimeout: 2 * time.Second}
	require.ErrorIs(t, r.UpsertStore(context.Background(), Store{}), ErrBadKey)

	s := sampleStore()
	m, _ := pgxmock.NewPool()
	defer m.Close()
	m.ExpectExec(`INSERT INTO stores`).
		WithArgs(s.StoreID, s.Name, s.Domain, s.Email, s.AccessToken, s.InstalledAt.UTC(), s.ShippingConfigured).
		WillReturnError(errors.New("boom"))

	r2 := &StoresRepo{Pool: m, qTimeout: 2 * time.Second}
	err := r2.UpsertStore(context.Background(), s)
	require.ErrorIs(t, err, ErrStorageUnavailable)
	require.ErrorContains(t, err, "upsertStore")
	require.NoError(t, m.ExpectationsWereMet())
}

func Test_GetStore_Success_NotFound_Error(t *testing.T) {
	s := sampleStore()

	m1, _ := pgxmock.NewPool()
	defer m1.Close()
	m1.ExpectQuery(regexp.QuoteMeta(qGetStore)).WithArgs(s.StoreID).WillReturnRows(storeRows(s))
	r1 := &StoresRepo{Pool: m1, qTimeout: 2 * time.Second}
	got, err := r1.GetStore(context.Background(), s.StoreID)
	require.NoError(t, err)
	require.Equal(t, s.AccessToken, got.AccessToken)
	require.True(t, got.ShippingConfigured)
	require.NoError(t, m1.ExpectationsWereMet())

	m2, _ := pgxmock.NewPool()
	defer m2.Close()
	m2.ExpectQuery(regexp.QuoteMeta(qGetStore)).WithArgs("nope").WillReturnError(pgx.ErrNoRows)
	r2 := &StoresRepo{Pool: m2, qTimeout: 2 * time.Second}
	_, err = r2.GetStore(context.Background(), "nope")
	require.ErrorIs(t, err, ErrStoreNotFound)
	require.NoError(t, m2.ExpectationsWereMet())

	m3, _ := pgxmock.NewPool()
	defer m3.Close()
	m3.ExpectQuery(regexp.QuoteMeta(qGetStore)).WithArgs(s.StoreID).WillReturnError(errors.New("boom"))
	r3 := &StoresRepo{Pool: m3, qTimeout: 2 * time.Second}
	_, err = r3.GetStore(context.Background(), s.StoreID)
	require.ErrorIs(t, err, ErrStorageUnavailable)
	require.ErrorContains(t, err, "getStore")
	require.NoError(t, m3.ExpectationsWereMet())
}

func Test_GetStore_BadKey(t *testing.T) {
	r := &StoresRepo{}
	_, err := r.GetStore(context.Background(), "")
	require.ErrorIs(t, err, ErrBadKey)
}

func Test_ListStores_Success_And_QueryError(t *testing.T) {
	s := sampleStore()

	m1, _ := pgxmock.NewPool()
	defer m1.Close()
	rows := storeRows(s).AddRow("1000", "Otra", "otra.example", "x@y.z", "tok-2", tNow(), false)
	m1.ExpectQuery(regexp.QuoteMeta(qListStores)).WillReturnRows(rows)
	r1 := &StoresRepo{Pool: m1, qTimeout: 2 * time.Second}
	got, err := r1.ListStores(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "999", got[0].StoreID)
	require.NoError(t, m1.ExpectationsWereMet())

	m2, _ := pgxmock.NewPool()
	defer m2.Close()
	m2.ExpectQuery(regexp.QuoteMeta(qListStores)).WillReturnError(errors.New("boom"))
	r2 := &StoresRepo{Pool: m2, qTimeout: 2 * time.Second}
	_, err = r2.ListStores(context.Background())
	require.ErrorIs(t, err, ErrStorageUnavailable)
	require.ErrorContains(t, err, "listStores query")
	require.NoError(t, m2.ExpectationsWereMet())
}

func Test_MarkShippingConfigured(t *testing.T) {
	m1, _ := pgxmock.NewPool()
	defer m1.Close()
	m1.ExpectExec(`UPDATE stores SET shipping_configured`).WithArgs("999").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	r1 := &StoresRepo{Pool: m1, qTimeout: 2 * time.Second}
	require.NoError(t, r1.MarkShippingConfigured(context.Background(), "999"))
	require.NoError(t, m1.ExpectationsWereMet())

	m2, _ := pgxmock.NewPool()
	defer m2.Close()
	m2.ExpectExec(`UPDATE stores SET shipping_configured`).WithArgs("404").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	r2 := &StoresRepo{Pool: m2, qTimeout: 2 * time.Second}
	require.ErrorIs(t, r2.MarkShippingConfigured(context.Background(), "404"), ErrStoreNotFound)
	require.NoError(t, m2.ExpectationsWereMet())

	m3, _ := pgxmock.NewPool()
	defer m3.Close()
	m3.ExpectExec(`UPDATE stores SET shipping_configured`).WithArgs("999").
		WillReturnError(errors.New("boom"))
	r3 := &StoresRepo{Pool: m3, qTimeout: 2 * time.Second}
	err := r3.MarkShippingConfigured(context.Background(), "999")
	require.ErrorIs(t, err, ErrStorageUnavailable)
	require.NoError(t, m3.ExpectationsWereMet())

	r4 := &StoresRepo{}
	require.ErrorIs(t, r4.MarkShippingConfigured(context.Background(), ""), ErrBadKey)
}

func Test_Address_Format(t *testing.T) {
	a := Address{
		Street:     "Av. Falsa",
		Number:     "123",
		City:       "CABA",
		Province:   "Buenos Aires",
		PostalCode: "C1426",
		Country:    "AR",
	}
	require.Equal(t, "Av. Falsa, 123, CABA, Buenos Aires, C1426, AR", a.Format())
	require.Equal(t, "", Address{}.Format())
}
