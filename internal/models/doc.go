// Package models defines the core domain records for the family organizer.
//
// # Aggregates
//
//   - User: a family member account. Holds a weak reference (FamilyID) to
//     its family; never the reverse.
//   - Family: a tenant grouping of users, admitted via a 6-character join
//     code. Owns its admission settings and member count.
//   - Todo: a task or meeting, discriminated by Type. Owns its ordered
//     Comment trail.
//
// # Design principles
//
//  1. Records are plain data: no storage concerns, no transport tags.
//  2. Relationships use ID strings instead of pointers, avoiding circular
//     references between aggregates.
//  3. Enumerations are typed string constants so values read well in logs
//     and in the store.
//  4. Timestamps are Unix seconds; calendar dates and clock times travel
//     as YYYY-MM-DD / HH:MM strings and are combined only where due-ness
//     is computed.
package models
