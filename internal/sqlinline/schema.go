package sqlinline

// QSchema creates every table this service owns. Statements are idempotent
// so the migrate command can run against an existing database.
const QSchema = `--sql 9c2d4e6f-1a3b-4c5d-8e7f-2b4d6a8c0e1f
create extension if not exists pgcrypto;

create table if not exists users (
    id              uuid primary key default gen_random_uuid(),
    clerk_id        text not null unique,
    email           text not null unique,
    username        text not null default '',
    first_name      text not null default '',
    last_name       text not null default '',
    photo_url       text not null default '',
    plan            text not null default 'free',
    -- No floor: adjustments apply unconditionally and may dip negative
    -- transiently; the spend path guards sufficiency in its own statement.
    credit_balance  bigint not null default 10,
    locale_pref     text not null default '',
    created_at      timestamptz not null default now(),
    updated_at      timestamptz not null default now()
);

create table if not exists transactions (
    id            uuid primary key default gen_random_uuid(),
    stripe_id     text not null unique,
    amount_cents  bigint not null default 0,
    plan          text not null default '',
    credits       bigint not null,
    buyer_id      uuid references users(id) on delete set null,
    created_at    timestamptz not null default now()
);

create index if not exists transactions_buyer_created_idx
    on transactions (buyer_id, created_at desc);

create table if not exists images (
    id                   uuid primary key default gen_random_uuid(),
    title                text not null,
    public_id            text not null,
    secure_url           text not null default '',
    transformation_type  text not null,
    config               jsonb not null default '{}'::jsonb,
    transformation_url   text not null default '',
    aspect_ratio         text not null default '',
    color                text not null default '',
    prompt               text not null default '',
    width                int not null default 0,
    height               int not null default 0,
    author_id            uuid not null references users(id) on delete cascade,
    created_at           timestamptz not null default now(),
    updated_at           timestamptz not null default now()
);

create index if not exists images_updated_idx on images (updated_at desc);
create index if not exists images_author_idx on images (author_id);
create index if not exists images_public_id_idx on images (public_id);

create table if not exists usage_events (
    id             uuid primary key default gen_random_uuid(),
    user_id        uuid references users(id) on delete set null,
    image_id       uuid,
    event_type     text not null,
    credits_delta  bigint not null default 0,
    country        text,
    properties     jsonb not null default '{}'::jsonb,
    created_at     timestamptz not null default now()
);

create index if not exists usage_events_user_created_idx
    on usage_events (user_id, created_at desc);
`
