package repo

// DDL applied by cmd/seenby-migrate. The base tables exist for every
// strategy; each strategy layers its own storage on top. Statements are
// idempotent so re-running the migrator is safe

// BaseSchema returns the strategy-independent tables
func BaseSchema() []string {
	return []string{
		`create table if not exists users (
  id text primary key,
  name text not null,
  created_at timestamptz not null default now()
)`,
		`create table if not exists posts (
  id text primary key,
  author_id text not null references users (id),
  body text not null,
  created_at timestamptz not null default now()
)`,
		`create index if not exists posts_author_id_idx on posts (author_id)`,
	}
}

var counterSchema = []string{
	`alter table posts add column if not exists seen_count bigint`,
}

var hstoreSchema = []string{
	`create extension if not exists hstore`,
	`alter table posts add column if not exists seen_by_users hstore`,
}

var assocSchema = []string{
	`create table if not exists post_seen_by (
  post_id text not null references posts (id) on delete cascade,
  user_id text not null,
  seen_count bigint not null default 0,
  primary key (post_id, user_id)
)`,
}

var hllSchema = append(assocSchema[:len(assocSchema):len(assocSchema)],
	`alter table posts add column if not exists seen_by_sketch bytea`,
)
