package repo

const (
	qSnapshotHeader = `SELECT order_id, store_id, customer_name, customer_email, customer_phone,
                              total::text, currency, status, shipping_method, shipping_option,
                              created_at, updated_at
                       FROM orders WHERE order_id = $1 AND store_id = $2`

	qSnapshotAddress = `SELECT street, street_number, floor, locality, city, province, postal_code, country
                        FROM order_shipping_address WHERE order_id = $1 AND store_id = $2`

	qListSnapshots = `SELECT o.order_id, o.store_id, o.customer_name, o.customer_email, o.customer_phone,
                             o.total::text, o.currency, o.status, o.shipping_method, o.shipping_option,
                             a.street, a.street_number, a.floor, a.locality, a.city, a.province,
                             a.postal_code, a.country,
                             o.created_at, o.updated_at
                      FROM orders o
                      LEFT JOIN order_shipping_address a
                        ON a.order_id = o.order_id AND a.store_id = o.store_id
                      ORDER BY o.updated_at DESC
                      LIMIT $1`
)

const (
	qUpsertSnapshot = `
INSERT INTO orders (
  order_id, store_id, customer_name, customer_email, customer_phone,
  total, currency, status, shipping_method, shipping_option, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (order_id, store_id) DO UPDATE SET
  customer_name=EXCLUDED.customer_name,
  customer_email=EXCLUDED.customer_email,
  customer_phone=EXCLUDED.customer_phone,
  total=EXCLUDED.total,
  currency=EXCLUDED.currency,
  status=EXCLUDED.status,
  shipping_method=EXCLUDED.shipping_method,
  shipping_option=EXCLUDED.shipping_option,
  created_at=EXCLUDED.created_at,
  updated_at=EXCLUDED.updated_at
`

	qUpsertAddress = `
INSERT INTO order_shipping_address (
  order_id, store_id, street, street_number, floor, locality, city, province, postal_code, country
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (order_id, store_id) DO UPDATE SET
  street=EXCLUDED.street,
  street_number=EXCLUDED.street_number,
  floor=EXCLUDED.floor,
  locality=EXCLUDED.locality,
  city=EXCLUDED.city,
  province=EXCLUDED.province,
  postal_code=EXCLUDED.postal_code,
  country=EXCLUDED.country
`
)

const (
	qUpsertStore = `
INSERT INTO stores (
  store_id, name, domain, email, access_token, installed_at, shipping_configured
) VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (store_id) DO UPDATE SET
  name=EXCLUDED.name,
  domain=EXCLUDED.domain,
  email=EXCLUDED.email,
  access_token=EXCLUDED.access_token,
  installed_at=EXCLUDED.installed_at,
  shipping_configured=EXCLUDED.shipping_configured
`

	qGetStore = `SELECT store_id, name, domain, email, access_token, installed_at, shipping_configured
                 FROM stores WHERE store_id = $1`

	qListStores = `SELECT store_id, name, domain, email, access_token, installed_at, shipping_configured
                   FROM stores ORDER BY installed_at DESC`

	qMarkShipping = `UPDATE stores SET shipping_configured = TRUE WHERE store_id = $1`
)
