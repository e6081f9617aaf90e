package repository

// Schema returns the idempotent DDL for the primary store.
func Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS tickers (
			ticker          TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			exchange        TEXT NOT NULL,
			status          TEXT NOT NULL,
			current_model   TEXT,
			last_trained_at TIMESTAMPTZ,
			drift_score     DOUBLE PRECISION,
			accuracy        DOUBLE PRECISION,
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS models (
			id              BIGSERIAL PRIMARY KEY,
			ticker          TEXT NOT NULL REFERENCES tickers(ticker) ON DELETE CASCADE,
			model           TEXT NOT NULL,
			mae             DOUBLE PRECISION NOT NULL,
			rmse            DOUBLE PRECISION NOT NULL,
			mape            DOUBLE PRECISION NOT NULL,
			r2              DOUBLE PRECISION NOT NULL,
			last_trained_at TIMESTAMPTZ NOT NULL,
			status          TEXT NOT NULL,
			recommended     BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_models_ticker ON models(ticker)`,
		`CREATE TABLE IF NOT EXISTS forecast_points (
			id         BIGSERIAL PRIMARY KEY,
			ticker     TEXT NOT NULL REFERENCES tickers(ticker) ON DELETE CASCADE,
			date       DATE NOT NULL,
			actual     DOUBLE PRECISION,
			predicted  DOUBLE PRECISION NOT NULL,
			lower      DOUBLE PRECISION,
			upper      DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (ticker, date)
		)`,
		`CREATE TABLE IF NOT EXISTS logs (
			id        TEXT PRIMARY KEY,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT now(),
			ticker    TEXT NOT NULL REFERENCES tickers(ticker) ON DELETE CASCADE,
			event     TEXT NOT NULL,
			status    TEXT NOT NULL,
			message   TEXT NOT NULL,
			details   JSONB NOT NULL DEFAULT '{}'::jsonb
		)`,
		`CREATE INDEX IF NOT EXISTS idx_logs_ticker_ts ON logs(ticker, timestamp DESC)`,
		`CREATE TABLE IF NOT EXISTS settings (
			id                BIGINT PRIMARY KEY,
			retrain_frequency TEXT NOT NULL,
			drift_threshold   DOUBLE PRECISION NOT NULL,
			enable_auto_deploy BOOLEAN NOT NULL,
			slack_webhook_url TEXT NOT NULL DEFAULT '',
			candidate_models  JSONB NOT NULL DEFAULT '[]'::jsonb,
			exchanges_enabled JSONB NOT NULL DEFAULT '[]'::jsonb,
			updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS pipeline_runs (
			id         BIGSERIAL PRIMARY KEY,
			ticker     TEXT NOT NULL REFERENCES tickers(ticker) ON DELETE CASCADE,
			status     TEXT NOT NULL,
			stage      TEXT NOT NULL,
			progress   DOUBLE PRECISION NOT NULL DEFAULT 0,
			message    TEXT NOT NULL DEFAULT '',
			started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			error      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pipeline_runs_ticker ON pipeline_runs(ticker, id DESC)`,
	}
}
