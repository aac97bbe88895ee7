// LinkCheck - A tool for catching broken links in rendered static websites.
// Copyright (C) 2020-2021 Henry G. Stratmann III
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

/*
Package checker implements the map-reduce link-accounting engine for
linkcheck: parallel HTML parsing, per-worker link bookkeeping, and the
final broken-link/broken-anchor classification.

Each worker owns a LinkStore built on an Arena. Stores merge pairwise
under a commutative, associative algebra (Defined absorbs Used), so the
result of Run is independent of worker count and file-processing order.
*/
package checker
