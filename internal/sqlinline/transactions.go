package sqlinline

const QListTransactionsByBuyer = `--sql b4e92f18-63da-47c5-8a02-9d5f1c7e6ab4
select id, stripe_id, amount_cents, plan, credits, created_at
from transactions
where buyer_id = $1::uuid
order by created_at desc
limit $2::int;
`
