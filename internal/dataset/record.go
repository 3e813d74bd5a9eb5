// Package dataset holds the canonical inquiry dataset: record and collection
// types, date canonicalization, the cleaning pass, and merge/dedupe rules.
package dataset

import (
	"github.com/klytics/inquirykit/internal/schema"
)

// Record is one inquiry in canonical form. Every field is a string; dates are
// either a valid "YYYY/MM/DD" value or empty. ProductID is a string from
// creation onward so numeric-looking IDs never degrade to float notation.
type Record struct {
	InquiryTime   string `json:"inquiry_time"`
	ContactMethod string `json:"contact_method"`
	Grade         string `json:"follow_up_grade"`
	CustomerName  string `json:"customer_name"`
	CustomerTier  string `json:"customer_tier"`
	Continent     string `json:"continent"`
	Country       string `json:"country"`
	Product       string `json:"product_inquired"`
	ProductID     string `json:"product_id"`
	Handler       string `json:"handler"`
	Remark        string `json:"remark"`
	LastFollowUp  string `json:"last_follow_up_time"`

	// SourceSheet is transient provenance; it never reaches exports.
	SourceSheet string `json:"source_sheet,omitempty"`
}

// Get returns the value of a canonical field by name.
func (r *Record) Get(field string) string {
	switch field {
	case schema.FieldInquiryTime:
		return r.InquiryTime
	case schema.FieldContactMethod:
		return r.ContactMethod
	case schema.FieldGrade:
		return r.Grade
	case schema.FieldCustomerName:
		return r.CustomerName
	case schema.FieldCustomerTier:
		return r.CustomerTier
	case schema.FieldContinent:
		return r.Continent
	case schema.FieldCountry:
		return r.Country
	case schema.FieldProduct:
		return r.Product
	case schema.FieldProductID:
		return r.ProductID
	case schema.FieldHandler:
		return r.Handler
	case schema.FieldRemark:
		return r.Remark
	case schema.FieldLastFollowUp:
		return r.LastFollowUp
	}
	return ""
}

// Set assigns the value of a canonical field by name. Unknown fields are
// ignored.
func (r *Record) Set(field, value string) {
	switch field {
	case schema.FieldInquiryTime:
		r.InquiryTime = value
	case schema.FieldContactMethod:
		r.ContactMethod = value
	case schema.FieldGrade:
		r.Grade = value
	case schema.FieldCustomerName:
		r.CustomerName = value
	case schema.FieldCustomerTier:
		r.CustomerTier = value
	case schema.FieldContinent:
		r.Continent = value
	case schema.FieldCountry:
		r.Country = value
	case schema.FieldProduct:
		r.Product = value
	case schema.FieldProductID:
		r.ProductID = value
	case schema.FieldHandler:
		r.Handler = value
	case schema.FieldRemark:
		r.Remark = value
	case schema.FieldLastFollowUp:
		r.LastFollowUp = value
	}
}

// Values returns the record's canonical fields in schema order.
func (r *Record) Values() []string {
	vals := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		vals[i] = r.Get(f)
	}
	return vals
}

// key is the exact-duplicate identity: every canonical column joined with an
// unlikely separator. Provenance is deliberately excluded so the same row
// imported from two sheets still counts as a duplicate.
func (r *Record) key() string {
	const sep = "\x1f"
	k := ""
	for i, f := range schema.Fields {
		if i > 0 {
			k += sep
		}
		k += r.Get(f)
	}
	return k
}
