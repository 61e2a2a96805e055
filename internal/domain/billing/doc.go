// Package billing provides the domain models for quotations, invoices and
// monetary pricing.
//
// This package implements the billing bounded context, which is responsible for:
//   - Issuing quotations for bookings and tracking their acceptance lifecycle
//   - Issuing deposit, balance and full invoices against confirmed bookings
//   - Recording payments and deriving invoice settlement state from the ledger
//   - Normalizing monetary amounts (rounding, tax, deposit splits)
//
// Key Aggregates:
//   - Quotation: A priced offer with a state machine from draft to accepted
//   - Invoice: A payable document whose status follows its payment ledger
//
// Value Objects:
//   - TaxPolicy: How tax is applied to a priced booking (inclusive or exclusive)
//   - Payments: The append-only payment ledger attached to an invoice
//
// The billing domain integrates with:
//   - Scheduling domain: Bookings are the subject of every document
//   - Effect ports: Rendering, delivery and payment collection happen outside
package billing
