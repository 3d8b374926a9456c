package catalog

import (
	"context"

	"github.com/lojinha/backend/internal/domain/catalog"
	"golang.org/x/sync/errgroup"
)

// Page is one slice of a listing plus the size of the whole result
type Page struct {
	Items []catalog.Product
	Total int64
}

// PageStrategy executes a listing with one particular ordering technique
type PageStrategy interface {
	Fetch(ctx context.Context, reader catalog.ProductReader, q catalog.ListingQuery) (*Page, error)
}

// nativeOrderStrategy lets the store sort and slice. Count and page are
// independent reads, so they run concurrently.
type nativeOrderStrategy struct {
	order catalog.NativeOrder
}

func (s nativeOrderStrategy) Fetch(ctx context.Context, reader catalog.ProductReader, q catalog.ListingQuery) (*Page, error) {
	var (
		total int64
		items []catalog.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := reader.Count(gctx, q.Filter)
		total = n
		return err
	})
	g.Go(func() error {
		found, err := reader.FindPage(gctx, q.Filter, s.order, q.Offset(), q.PerPage)
		items = found
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Page{Items: items, Total: total}, nil
}

// collatedOrderStrategy loads every match and orders names with the pt-BR
// collator, because the store collation may place accented names differently.
type collatedOrderStrategy struct {
	desc bool
}

func (s collatedOrderStrategy) Fetch(ctx context.Context, reader catalog.ProductReader, q catalog.ListingQuery) (*Page, error) {
	all, err := reader.FindAllMatching(ctx, q.Filter)
	if err != nil {
		return nil, err
	}

	catalog.NewNameCollator().SortByName(all, s.desc)

	total := int64(len(all))
	start := min(q.Offset(), len(all))
	end := min(start+q.PerPage, len(all))

	items := make([]catalog.Product, end-start)
	copy(items, all[start:end])

	return &Page{Items: items, Total: total}, nil
}

// Pager runs listing queries using the strategy registered for the sort key
type Pager struct {
	reader     catalog.ProductReader
	strategies map[catalog.SortKey]PageStrategy
}

// NewPager creates a pager with a strategy for every sort key
func NewPager(reader catalog.ProductReader) *Pager {
	p := &Pager{
		reader:     reader,
		strategies: make(map[catalog.SortKey]PageStrategy),
	}
	for _, key := range []catalog.SortKey{
		catalog.SortRelevance,
		catalog.SortPriceAsc,
		catalog.SortPriceDesc,
		catalog.SortNameAsc,
		catalog.SortNameDesc,
	} {
		p.strategies[key] = strategyFor(key)
	}
	return p
}

func strategyFor(key catalog.SortKey) PageStrategy {
	if order, ok := key.NativeOrder(); ok {
		return nativeOrderStrategy{order: order}
	}
	return collatedOrderStrategy{desc: key == catalog.SortNameDesc}
}

// Page executes q. Errors are returned as-is; no partial page is produced.
func (p *Pager) Page(ctx context.Context, q catalog.ListingQuery) (*Page, error) {
	strategy, ok := p.strategies[q.Sort]
	if !ok {
		strategy = p.strategies[catalog.SortRelevance]
	}
	page, err := strategy.Fetch(ctx, p.reader, q)
	if err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []catalog.Product{}
	}
	return page, nil
}
