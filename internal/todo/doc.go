// Package todo holds the task model and its file-backed store.
//
// The backing file is a JSON array of task records:
//
//	[
//	  {
//	    "description": "Buy milk",
//	    "priority": "low",
//	    "due_date": "2024-03-15",
//	    "completed": false
//	  }
//	]
//
// # Records
//
// Every record carries exactly the four keys above. due_date is an
// ISO-8601 calendar date or null; an ISO date-time is read as its date. Decoding is strict: unknown keys, missing
// keys and wrongly typed values are rejected with a *FieldError.
//
// # Identity
//
// Tasks have no stable id. Remove and Complete address a task by its
// position in the list, so removing a task shifts every later task down by
// one.
//
// # Persistence
//
// Every mutation rewrites the whole file. When writing, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - Fixed key order (description, priority, due_date, completed)
//
// Optional JSON Schema validation (draft 2020-12) runs against the raw
// document before decoding; see WithSchemaValidation.
package todo
