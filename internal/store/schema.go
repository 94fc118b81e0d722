package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DDL for the output tables. Every table keys on year so a run can replace
// its year wholesale inside one transaction.
const schema = `
CREATE TABLE IF NOT EXISTS trade_facts (
	year                INT          NOT NULL,
	product_code        VARCHAR(6)   NOT NULL,
	partner_country     CHAR(3)      NOT NULL,
	export_ref_to_partner  DOUBLE PRECISION NOT NULL,
	import_partner_total   DOUBLE PRECISION NOT NULL,
	export_ref_global      DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (year, product_code, partner_country)
);

CREATE TABLE IF NOT EXISTS trade_metrics (
	year                INT          NOT NULL,
	product_code        VARCHAR(6)   NOT NULL,
	partner_country     CHAR(3)      NOT NULL,
	share_in_partner_import      DOUBLE PRECISION,
	yoy_export_change            DOUBLE PRECISION,
	partner_share_in_ref_exports DOUBLE PRECISION,
	yoy_partner_share_change     DOUBLE PRECISION,
	PRIMARY KEY (year, product_code, partner_country)
);

CREATE TABLE IF NOT EXISTS peer_assignments (
	year        INT         NOT NULL,
	country     CHAR(3)     NOT NULL,
	methodology VARCHAR(32) NOT NULL,
	cluster_id  INT         NOT NULL,
	peers       TEXT[]      NOT NULL,
	PRIMARY KEY (year, country, methodology)
);

CREATE TABLE IF NOT EXISTS peer_medians (
	year              INT         NOT NULL,
	product_code      VARCHAR(6)  NOT NULL,
	partner_country   CHAR(3)     NOT NULL,
	methodology       VARCHAR(32) NOT NULL,
	peer_median_share DOUBLE PRECISION NOT NULL,
	peer_count        INT         NOT NULL,
	peers             TEXT[]      NOT NULL,
	PRIMARY KEY (year, product_code, partner_country, methodology)
);

CREATE TABLE IF NOT EXISTS opportunity_signals (
	year            INT         NOT NULL,
	signal_type     VARCHAR(40) NOT NULL,
	product_code    VARCHAR(6)  NOT NULL,
	partner_country CHAR(3)     NOT NULL,
	methodology     VARCHAR(32),
	intensity       DOUBLE PRECISION NOT NULL,
	value           DOUBLE PRECISION NOT NULL,
	yoy             DOUBLE PRECISION,
	peer_median     DOUBLE PRECISION,
	peers           TEXT[],
	explanation     TEXT,
	PRIMARY KEY (year, product_code, partner_country, signal_type)
);

CREATE TABLE IF NOT EXISTS ranked_signals (
	year            INT         NOT NULL,
	list            VARCHAR(8)  NOT NULL,
	rank            INT         NOT NULL,
	signal_type     VARCHAR(40) NOT NULL,
	product_code    VARCHAR(6)  NOT NULL,
	partner_country CHAR(3)     NOT NULL,
	methodology     VARCHAR(32),
	intensity       DOUBLE PRECISION NOT NULL,
	value           DOUBLE PRECISION NOT NULL,
	yoy             DOUBLE PRECISION,
	peer_median     DOUBLE PRECISION,
	peers           TEXT[],
	explanation     TEXT,
	PRIMARY KEY (year, list, rank)
);

CREATE TABLE IF NOT EXISTS pipeline_runs (
	year             INT PRIMARY KEY,
	fingerprint      CHAR(64)    NOT NULL,
	seed             BIGINT      NOT NULL,
	started_at       TIMESTAMPTZ NOT NULL,
	finished_at      TIMESTAMPTZ NOT NULL,
	fact_rows        INT NOT NULL,
	metrics_rows     INT NOT NULL,
	assignment_rows  INT NOT NULL,
	median_rows      INT NOT NULL,
	signal_rows      INT NOT NULL,
	ranked_rows      INT NOT NULL,
	records_read     INT NOT NULL,
	records_excluded INT NOT NULL,
	excluded_share   DOUBLE PRECISION NOT NULL
);
`

// EnsureSchema creates the output tables when they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
