/*
Package storagemodels defines the data structures shared by Storefront's
repository operations.

Key Types:

PageRequest / PagedResult:
The offset-paging contract used by every paged query:

	page := storagemodels.PageRequest{PageIndex: 0, PageSize: 10}
	result, err := repo.ListPaged(ctx, page, storagemodels.ListParams{})
	// result.TotalItems counts the whole filtered set,
	// len(result.Items) <= page.PageSize

The envelope marshals to the stable wire shape
{pageIndex, pageSize, totalItems, items}.

ListParams:
Optional filter, ordering and relation-inclusion arguments:

	params := storagemodels.ListParams{
	    Predicate: predicate.Eq("Status", "OPEN"),
	    Ordering:  predicate.ByDesc("CreatedAt"),
	    Include:   []string{"Orders"},
	}

These types provide a consistent interface across different storage
implementations.
*/
package storagemodels
