// Package match scores how alike two member names are. The mapper pairs
// members by exact name only; these scores feed the suggestions reported
// next to members it had to drop.
package match
