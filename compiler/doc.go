/*

Process of compilation

Source Line ->
	parse ->
Statement (ast) ->
	front: dispatch, lower expressions ->
Instructions (ir.Module body) ->
	render with header and footer ->
IR Text Lines ->
	sink

*/
package compiler
