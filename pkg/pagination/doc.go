// Package pagination walks offset/limit paginated Randori endpoints.
//
// Randori list endpoints answer with {total, offset, count, data}. The
// paginator first asks for zero records to learn the total, then requests
// pages of PageSize records, advancing the offset by the count the server
// actually returned.
//
// Example usage:
//
//	p := pagination.New(randoriClient, pagination.DefaultConfig())
//	params := pagination.NewParams(encodedQuery, "-target_temptation")
//	records, err := p.FetchAll(ctx, "recon/api/v1/hostname", params)
//
// The paginator:
//   - Learns total from the initial request only
//   - Returns an empty result when total is 0, without further requests
//   - Stops on the first page with count 0, even before offset reaches total
//   - Stops once offset exceeds total
//   - Fails the whole fetch on the first error
//
// Params is a value type: every endpoint gets its own copy so offsets never
// leak from one endpoint into the next.
package pagination
