package sqlinline

const QHealthPing = `--sql 5a8e0c4f-7b31-4d2a-9e56-f1c8d72a3b04
select 1;
`
