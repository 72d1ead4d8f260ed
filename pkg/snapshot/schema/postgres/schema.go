package postgres

// Schema holds one row per upstream entity, keyed by its GetResponse id, with
// the payload it was mapped from. sync_runs records every snapshot run.
const Schema = `
CREATE TABLE IF NOT EXISTS sync_runs (
    id                 UUID PRIMARY KEY,
    status             TEXT NOT NULL,
    started_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
    finished_at        TIMESTAMPTZ,
    items_succeeded    INTEGER NOT NULL DEFAULT 0,
    items_failed       INTEGER NOT NULL DEFAULT 0,
    error              TEXT
);

CREATE TABLE IF NOT EXISTS campaigns (
    id             TEXT PRIMARY KEY,
    name           TEXT,
    language_code  TEXT,
    is_default     BOOLEAN,
    created_on     TIMESTAMPTZ,
    raw            JSONB NOT NULL,
    sync_run_id    UUID REFERENCES sync_runs (id),
    synced_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS custom_fields (
    id             TEXT PRIMARY KEY,
    name           TEXT,
    field_type     TEXT,
    value_type     TEXT,
    hidden         BOOLEAN,
    raw            JSONB NOT NULL,
    sync_run_id    UUID REFERENCES sync_runs (id),
    synced_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tags (
    id             TEXT PRIMARY KEY,
    name           TEXT,
    color          TEXT,
    raw            JSONB NOT NULL,
    sync_run_id    UUID REFERENCES sync_runs (id),
    synced_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS contacts (
    id                TEXT PRIMARY KEY,
    campaign_id       TEXT,
    name              TEXT,
    email             TEXT,
    subscriber_type   TEXT NOT NULL,
    engagement_score  INTEGER,
    created_on        TIMESTAMPTZ,
    changed_on        TIMESTAMPTZ,
    raw               JSONB NOT NULL,
    sync_run_id       UUID REFERENCES sync_runs (id),
    synced_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS contacts_campaign_id_idx ON contacts (campaign_id);
CREATE INDEX IF NOT EXISTS contacts_subscriber_type_idx ON contacts (subscriber_type);
`
