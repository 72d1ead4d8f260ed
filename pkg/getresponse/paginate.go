package getresponse

import (
	"context"
	"fmt"
)

const (
	minPerPage = 1
	maxPerPage = 1000
)

// pageFetcher fetches one page. params already carries page and perPage.
type pageFetcher[T any] func(ctx context.Context, params Params) ([]T, error)

// resolvePaging validates the paging inputs and merges them into a copy of
// opts.Params. explicit reports whether a single page was asked for.
func resolvePaging(opts ListOptions) (params Params, explicit bool, err error) {
	params = opts.Params.clone()

	perPage, hasPerPage, err := pagingValue(params, "perPage", opts.PerPage)
	if err != nil {
		return nil, false, err
	}
	if hasPerPage {
		if perPage < minPerPage || perPage > maxPerPage {
			return nil, false, fmt.Errorf("%w: got %d", ErrPerPageRange, perPage)
		}
		params["perPage"] = perPage
	}

	pageNum, hasPage, err := pagingValue(params, "page", opts.Page)
	if err != nil {
		return nil, false, err
	}
	// A zero page in params asks for every page, same as leaving it out.
	if hasPage && pageNum == 0 {
		delete(params, "page")
		hasPage = false
	}
	if hasPage {
		if pageNum < 1 {
			return nil, false, fmt.Errorf("%w: got %d", ErrInvalidPage, pageNum)
		}
		params["page"] = pageNum
	}

	return params, hasPage, nil
}

// pagingValue returns the value of key from either the argument or params.
// Setting both is an error.
func pagingValue(params Params, key string, arg int) (int, bool, error) {
	v, inParams := params[key]
	if inParams && v == nil {
		delete(params, key)
		inParams = false
	}
	switch {
	case arg != 0 && inParams:
		return 0, false, fmt.Errorf("%w: %s", ErrDuplicateParam, key)
	case arg != 0:
		return arg, true, nil
	case inParams:
		n, err := toInt(v)
		if err != nil {
			if key == "page" {
				return 0, false, fmt.Errorf("%w: %v", ErrInvalidPage, err)
			}
			return 0, false, fmt.Errorf("%w: %v", ErrPerPageRange, err)
		}
		return n, true, nil
	}
	return 0, false, nil
}

// paginate fetches the requested page, or walks pages from 1 until the API
// returns an empty one. Order is preserved across and within pages.
func paginate[T any](ctx context.Context, opts ListOptions, fetch pageFetcher[T]) ([]T, error) {
	params, explicit, err := resolvePaging(opts)
	if err != nil {
		return nil, err
	}

	if explicit {
		items, err := fetch(ctx, params)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
		return items, nil
	}

	all := []T{}
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		params["page"] = n
		items, err := fetch(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", n, err)
		}
		if len(items) == 0 {
			return all, nil
		}
		all = append(all, items...)
	}
}
