package database

// Schema is applied on every startup; statements are idempotent.
//
// Every row carries a version stamp. All updates that participate in the
// fulfillment flow are conditional on the version last read, which is what
// keeps concurrent accepts from over-filling a requirement.
const Schema = `
CREATE TABLE IF NOT EXISTS collaborations (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	creator_id  TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'active',
	version     INTEGER NOT NULL DEFAULT 1,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_collaborations_creator ON collaborations(creator_id);
CREATE INDEX IF NOT EXISTS idx_collaborations_status ON collaborations(status);

CREATE TABLE IF NOT EXISTS requirements (
	id               TEXT PRIMARY KEY,
	collaboration_id TEXT NOT NULL REFERENCES collaborations(id) ON DELETE CASCADE,
	role             TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	budget           TEXT NOT NULL DEFAULT '',
	timing           TEXT NOT NULL DEFAULT '',
	location         TEXT NOT NULL DEFAULT '',
	skills           TEXT NOT NULL DEFAULT '[]',
	quantity_needed  INTEGER NOT NULL,
	quantity_filled  INTEGER NOT NULL DEFAULT 0,
	status           TEXT NOT NULL DEFAULT 'open',
	version          INTEGER NOT NULL DEFAULT 1,
	created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CHECK (quantity_needed >= 1),
	CHECK (quantity_filled >= 0 AND quantity_filled <= quantity_needed)
);

CREATE INDEX IF NOT EXISTS idx_requirements_collaboration ON requirements(collaboration_id);

CREATE TABLE IF NOT EXISTS applications (
	id             TEXT PRIMARY KEY,
	requirement_id TEXT NOT NULL REFERENCES requirements(id) ON DELETE CASCADE,
	applicant_id   TEXT NOT NULL,
	message        TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT 'pending',
	version        INTEGER NOT NULL DEFAULT 1,
	applied_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_applications_requirement ON applications(requirement_id);
CREATE INDEX IF NOT EXISTS idx_applications_applicant ON applications(applicant_id);

-- An applicant may hold at most one non-rejected application per requirement.
CREATE UNIQUE INDEX IF NOT EXISTS ux_applications_active
	ON applications(requirement_id, applicant_id) WHERE status != 'rejected';
`
