// Package schema defines the contact record and the rules its fields follow.
//
// A Contact is the only record type in the directory. Its persisted field
// order is fixed by Columns: id, name, phone, email, isDeleted, deletedAt.
//
// Field Rules:
//   - Name: 2-49 ASCII letters and spaces, stored in normalized form
//   - Phone: 10-14 characters of digits, '+' and '-'
//   - Email: 5-49 characters, an '@' before the last '.', non-empty suffix
//
// Names are normalized with NormalizeName before validation, indexing and
// comparison: surrounding whitespace is trimmed and inner runs collapse to a
// single space. Matching stays case-sensitive.
//
// Usage Example:
//
//	in := schema.ContactInput{Name: "Alice", Phone: "+1-5551234567", Email: "alice@x.com"}
//	if err := in.Validate(); err != nil {
//		var verr *schema.ValidationError
//		if errors.As(err, &verr) {
//			fmt.Println("bad field:", verr.Field)
//		}
//	}
package schema
