package sqlinline

const QInsertProject = `--sql 81fb6978-427d-4393-8352-5263c7c007f7
insert into projects(id, title, tagline, description, category, status, target_funding, current_funding, donors_count, volunteers_count, image_url, author_id, created_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::text, 'Active', $5::bigint, 0, 0, 0, $6::text, $7::text, now())
returning id::text, title, tagline, description, category, status, target_funding, current_funding, donors_count, volunteers_count, image_url, author_id, created_at;
`

const QListProjects = `--sql e1340379-64a2-4779-bd5e-0a1b9321bf7e
select id::text, title, tagline, description, category, status, target_funding, current_funding, donors_count, volunteers_count, image_url, author_id, created_at
from projects
order by created_at desc
limit $1::int;
`

const QPingProjects = `--sql 06266f6c-3487-426a-9992-474deeed8548
select count(*) from projects;
`
