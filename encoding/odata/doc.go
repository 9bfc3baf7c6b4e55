/*
Package odata implements the streaming writer of the OData JSON payloads.

The Writer is a state machine driven by the ordered start and end calls:

	Payload      ::= StartPayload Item EndPayload
	Item         ::= RecordSet | Record
	RecordSet    ::= StartRecordSet Record* EndRecordSet
	Record       ::= StartRecord Relationship* EndRecord
	Relationship ::= StartRelationship EndRelationship
	               | StartRelationship (RecordSet | Record | ReferenceLink+ RecordSet?) EndRelationship

Each call computes the annotations due at that position, tracks what was already written within
the current scope and forwards the JSON tokens to the TokenWriter. The writer is not safe for concurrent use.
The first failure poisons the writer and every following call returns an error classified as ErrWriterPoisoned.
*/
package odata
