// Package core normalises raw postsecondary enrolment extracts into the
// canonical one-row-per-record schema.
//
// The package has no I/O. It is used by the CLI and can be used by tests or
// other tools without modification.
//
// # Stages
//
// Each stage is a pure function over a [table.Table]:
//
//   - [RequireStage], [DropColumns], [RenameColumns], [ReorderColumns]: column bookkeeping
//   - [NormalizeFiscalYear]: "2019-2020" becomes 2019
//   - [SplitGeography]: "Seneca College, Ontario" becomes an institution and a province
//   - [AbbreviateNames]: ordered literal substring rewrites of institution names
//   - [RemoveTerritories], [SelectGeographies]: row filters on geography
//   - [PivotStatus]: group and spread citizenship status into summed columns
//   - [AddProvinceCode]: short province code next to the province name
//
// A [Stage] pairs a name with a configured function. [Pipeline] runs stages
// in order; [EnrolmentPipeline] builds the standard sequence:
//
//	p := core.EnrolmentPipeline(reference.Default(), core.EnrolmentOptions{})
//	if _, err := p.Validate(raw.Columns()); err != nil {
//	    return err
//	}
//	out, err := p.Run(ctx, raw)
//
// # Error Handling
//
// Stages fail with typed errors so callers can locate the bad input:
//
//   - [MalformedValueError]: a cell has the wrong shape (row, column, value)
//   - [ConfigurationMismatchError]: configured columns are absent from the table
//   - [UnresolvedGeographyError]: recoverable; the table is returned alongside it
//
// The pipeline wraps them in [StageError]. [MapError] turns any of them into a
// coded [UserMessage].
package core
