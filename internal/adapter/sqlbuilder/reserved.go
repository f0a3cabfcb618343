/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/


package sqlbuilder

import "strings"

// initialReservedWords are the words reserved before Firebird 2.5.
var initialReservedWords = wordSet(`
active add admin after all alter and any as asc ascending at auto avg
before begin between bigint bit_length blob both by case cast char
char_length character character_length check close collate column commit
committed computed conditional connect constraint containing count create
cross cstring current current_connection current_date current_role
current_time current_timestamp current_transaction current_user cursor
database date day dec decimal declare default delete desc descending
disconnect distinct do domain double drop else end entry_point escape
exception execute exists exit external extract fetch file filter float for
foreign from full function gdscode gen_id generator global grant group
having hour if in inactive index inner input_type insensitive insert int
integer into is isolation join key leading left length level like long
lower manual max maximum_segment merge min minute module_name month names
national natural nchar no not null numeric octet_length of on only open
option or order outer output_type overflow page page_size pages parameter
password plan position post_event precision primary privileges procedure
protected rdb$db_key read real record_version recreate recursive references
release reserv reserving retain returning_values returns revoke right
rollback row_count rows savepoint schema second segment select sensitive
set shadow shared singular size smallint snapshot some sort sqlcode
stability start starting starts statistics sub_type sum suspend table then
time timestamp to trailing transaction trigger trim uncommitted union
unique update upper user using value values varchar variable varying view
wait when where while with work write year
`)

// reservedWords25 are the words reserved by Firebird 2.5.
var reservedWords25 = wordSet(`
add admin all alter and any as at avg begin between bigint bit_length blob
both by case cast char char_length character character_length check close
collate column commit connect constraint count create cross current
current_connection current_date current_role current_time current_timestamp
current_transaction current_user cursor date day dec decimal declare
default delete deleting disconnect distinct double drop else end escape
execute exists external extract fetch filter float for foreign from full
function gdscode global grant group having hour in index inner insensitive
insert inserting int integer into is join leading left like long lower max
maximum_segment merge min minute month national natural nchar no not null
numeric octet_length of on only open or order outer parameter plan position
post_event precision primary procedure rdb$db_key real record_version
recreate recursive references release returning_values returns revoke right
rollback row_count rows savepoint second select sensitive set similar
smallint some sqlcode sqlstate start sum table then time timestamp to
trailing trigger trim union unique update updating upper user using value
values varchar variable varying view when where while with year
`)

// reservedWords30 are the words reserved by Firebird 3.0.
var reservedWords30 = wordSet(`
add admin all alter and any as at avg begin between bigint bit_length blob
boolean both by case cast char char_length character character_length check
close collate column commit connect constraint corr count covar_pop
covar_samp create cross current current_connection current_date
current_role current_time current_timestamp current_transaction
current_user cursor date day dec decimal declare default delete deleting
deterministic disconnect distinct double drop else end escape execute
exists external extract false fetch filter float for foreign from full
function gdscode global grant group having hour in index inner insensitive
insert inserting int integer into is join leading left like long lower max
merge min minute month national natural nchar no not null numeric
octet_length of offset on only open or order outer over parameter plan
position post_event precision primary procedure rdb$db_key
rdb$record_version real record_version recreate recursive references
regr_avgx regr_avgy regr_count regr_intercept regr_r2 regr_slope regr_sxx
regr_sxy regr_syy release return returning_values returns revoke right
rollback row row_count rows savepoint scroll second select sensitive set
similar smallint some sqlcode sqlstate start stddev_pop stddev_samp sum
table then time timestamp to trailing trigger trim true union unique
unknown update updating upper user using value values var_pop var_samp
varchar variable varying view when where while with year
`)

// reservedWords40 are the words reserved by Firebird 4.0 and 5.0.
var reservedWords40 = wordSet(`
add admin all alter and any as at avg begin between bigint binary
bit_length blob boolean both by case cast char char_length character
character_length check close collate column comment commit connect
constraint corr count covar_pop covar_samp create cross current
current_connection current_date current_role current_time current_timestamp
current_transaction current_user cursor date day dec decfloat decimal
declare default delete deleting deterministic disconnect distinct double
drop else end escape execute exists external extract false fetch filter
float for foreign from full function gdscode global grant group having hour
in index inner insensitive insert inserting int int128 integer into is join
lateral leading left like local localtime localtimestamp long lower max
merge min minute month national natural nchar no not null numeric
octet_length of offset on only open or order outer over parameter plan
position post_event precision primary procedure publication rdb$db_key
rdb$error rdb$get_context rdb$get_transaction_cn rdb$record_version
rdb$role_in_use rdb$set_context rdb$system_privilege real record_version
recreate recursive references regr_avgx regr_avgy regr_count regr_intercept
regr_r2 regr_slope regr_sxx regr_sxy regr_syy release resetting return
returning_values returns revoke right rollback row row_count rows savepoint
scroll second select sensitive set similar smallint some sqlcode sqlstate
start stddev_pop stddev_samp sum table then time timestamp timezone_hour
timezone_minute to trailing trigger trim true unbounded union unique
unknown update updating upper user using value values var_pop var_samp
varbinary varchar variable varying view when where while window with
without year
`)

func wordSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, w := range fields {
		set[w] = struct{}{}
	}
	return set
}
