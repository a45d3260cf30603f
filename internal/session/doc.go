// Package session runs the interactive menu loop over a record store.
//
// The loop has a single menu state and six transitions:
//
//	1 add      prompt for every slot's record
//	2 display  print every slot
//	3 find     print one record by roll number
//	4 update   replace name and marks by roll number
//	5 delete   remove one record by roll number and compact
//	6 exit     leave the loop
//
// Any other number reports an invalid choice and shows the menu again.
// Not-found and invalid-input conditions are reported to the operator and
// never end the loop; only exit, a closed input stream, a cancelled
// context or a store failure do.
package session
