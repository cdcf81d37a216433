// Package schema owns the TripRules schema: validation, the persisted encoding,
// and migration of older shapes into the canonical one.
//
// Basic usage:
//
//	rules := schema.DefaultRules()
//	rules.City = "Goa"
//	rules.StartDate, rules.EndDate = "2024-01-01", "2024-01-03"
//
//	if errs := schema.Validate(rules); len(errs) > 0 {
//	    for field, msg := range errs {
//	        fmt.Println(field, msg)
//	    }
//	}
//
// The canonical schema is v1: a budget range (budgetMin/budgetMax) and the
// light/medium/packed pace vocabulary. Requests still using the older backend
// shape (a single budget, Relaxed/Balanced/Fast pace, destination/peopleCount)
// are migrated by FromMeta; persisted values in any other shape are rejected by
// Decode and treated as absent by the wizard.
package schema
