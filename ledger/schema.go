// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

// create a table for settled amounts
const entryTableSchema = `
create table if not exists entry (
	run text,
	seq integer,
	at integer,
	kind text,
	source text,
	user blob(20),
	amount text
);

CREATE INDEX if not exists runIndex on entry(run, seq);
CREATE INDEX if not exists userIndex on entry(user);
CREATE INDEX if not exists sourceIndex on entry(source);
`
