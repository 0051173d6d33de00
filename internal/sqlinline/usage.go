package sqlinline

const QInsertUsageEvent = `--sql 3f6c1d2a-98b4-4f6e-a1c7-5b2e8d904c11
insert into usage_events(id, user_id, image_id, event_type, credits_delta, country, properties, created_at)
values (gen_random_uuid(), nullif($1::text, '')::uuid, nullif($2::text, '')::uuid, $3::text, $4::bigint, nullif($5::text, ''), coalesce($6::jsonb, '{}'::jsonb), now())
returning id;
`

const QListUserUsage = `--sql 7d0ab5c3-21ef-4e88-9f34-c6a17b3d2e90
select id, image_id, event_type, credits_delta, country, properties, created_at
from usage_events
where user_id = $1::uuid
order by created_at desc
limit $2::int;
`
