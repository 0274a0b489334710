package listview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type SessionTestSuite struct {
	suite.Suite
	mu      sync.Mutex
	backend []item
	failing bool
	session *Session[item]
}

func (s *SessionTestSuite) SetupTest() {
	s.backend = nil
	s.failing = false

	store := NewStore(itemID, func(ctx context.Context) ([]item, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.failing {
			return nil, errors.New("backend unavailable")
		}
		out := make([]item, len(s.backend))
		copy(out, s.backend)
		return out, nil
	}, 0)

	statsFn := func(records []item) Stats {
		var total, outstanding float64
		for _, r := range records {
			total += r.total
			outstanding += r.total - r.paid
		}
		return Stats{
			"count":       float64(len(records)),
			"total":       total,
			"outstanding": outstanding,
		}
	}

	s.session = NewSession(testSchema(), store, statsFn, 20, 40*time.Millisecond)
}

func (s *SessionTestSuite) TearDownTest() {
	s.session.Close()
}

func (s *SessionTestSuite) seed(items []item) {
	s.mu.Lock()
	s.backend = items
	s.mu.Unlock()
	s.Require().NoError(s.session.Load(context.Background()))
}

// settle waits out the debounce window plus margin.
func (s *SessionTestSuite) settle() {
	time.Sleep(150 * time.Millisecond)
}

func (s *SessionTestSuite) TestInitialLoadPaginates25Records() {
	s.seed(makeItems(25))

	view := s.session.View()
	s.Len(view.Items, 20)
	s.Equal(25, view.TotalItems)
	s.Equal(2, view.TotalPages)
	s.Equal(1, view.Page)

	s.session.SetPage(2)
	view = s.session.View()
	s.Len(view.Items, 5)
	s.Equal(2, view.Page)
}

func (s *SessionTestSuite) TestCategoryFilterAndStatsOverFilteredSet() {
	items := makeItems(10)
	for i := 3; i < 6; i++ {
		items[i].category = "Rods"
		items[i].total = 100
		items[i].paid = 40
	}
	s.seed(items)

	s.session.SetExact("category", "Rods")
	s.session.CommitNow()

	view := s.session.View()
	s.Equal(3, view.TotalItems)
	s.Len(view.Items, 3)
	s.Equal(float64(3), view.Stats["count"])
	s.Equal(float64(300), view.Stats["total"])
	s.Equal(float64(180), view.Stats["outstanding"])

	// Clearing the value restores the full set.
	s.session.SetExact("category", "")
	s.session.CommitNow()
	s.Equal(10, s.session.View().TotalItems)
}

func (s *SessionTestSuite) TestStatsCoverWholeFilteredSetNotVisiblePage() {
	items := makeItems(25)
	for i := range items {
		items[i].total = 10
		items[i].paid = 0
	}
	s.seed(items)

	view := s.session.View()
	s.Len(view.Items, 20)
	s.Equal(float64(25), view.Stats["count"])
	s.Equal(float64(250), view.Stats["total"])
}

func (s *SessionTestSuite) TestDeletingLastItemOnLastPageClampsBack() {
	items := makeItems(21)
	s.seed(items)

	s.session.SetPage(2)
	view := s.session.View()
	s.Require().Len(view.Items, 1)
	victim := view.Items[0]

	s.session.OnMutation(Delete, victim)

	view = s.session.View()
	s.Equal(1, view.Page)
	s.Equal(20, view.TotalItems)
	s.Equal(1, view.TotalPages)
	s.Len(view.Items, 20)
}

func (s *SessionTestSuite) TestSearchBurstCollapsesToLastText() {
	items := makeItems(10)
	items[4].name = "abc special"
	s.seed(items)

	s.session.SetSearch("a")
	time.Sleep(10 * time.Millisecond)
	s.session.SetSearch("ab")
	time.Sleep(10 * time.Millisecond)
	s.session.SetSearch("abc")
	s.settle()

	view := s.session.View()
	s.Equal(1, view.TotalItems)
	s.Equal("abc special", view.Items[0].name)
	s.Equal("abc", s.session.Filter().Search)
}

func (s *SessionTestSuite) TestSearchResetsToFullSetWhenCleared() {
	s.seed(makeItems(10))

	s.session.SetSearch("Item 003")
	s.session.CommitNow()
	s.Equal(1, s.session.View().TotalItems)

	s.session.SetSearch("")
	s.session.CommitNow()
	s.Equal(10, s.session.View().TotalItems)
}

func (s *SessionTestSuite) TestFilterChangeClampsPage() {
	items := makeItems(25)
	items[0].name = "Unique Widget"
	s.seed(items)

	s.session.SetPage(2)
	s.Require().Equal(2, s.session.View().Page)

	// One match, one page: the stale page 2 must clamp to 1.
	s.session.SetSearch("unique widget")
	s.session.CommitNow()

	view := s.session.View()
	s.Equal(1, view.Page)
	s.Equal(1, view.TotalItems)
	s.Len(view.Items, 1)
}

func (s *SessionTestSuite) TestResetFiltersRestoresDefaults() {
	s.seed(makeItems(25))

	s.session.SetSearch("Item 001")
	s.session.CommitNow()
	s.session.SetSort("name", Ascending)
	s.Require().Equal(1, s.session.View().TotalItems)

	s.session.ResetFilters()

	view := s.session.View()
	s.Equal(25, view.TotalItems)
	s.Equal(1, view.Page)
	s.Equal(FilterSpec{}.Search, s.session.Filter().Search)
	s.Empty(s.session.Filter().Exact)
}

func (s *SessionTestSuite) TestSortChangePreservesFilter() {
	items := makeItems(6)
	for i := 0; i < 3; i++ {
		items[i].category = "Rods"
	}
	s.seed(items)

	s.session.SetExact("category", "Rods")
	s.session.CommitNow()
	s.session.SetSort("total", Descending)

	view := s.session.View()
	s.Equal(3, view.TotalItems)
	s.GreaterOrEqual(view.Items[0].total, view.Items[1].total)
	s.GreaterOrEqual(view.Items[1].total, view.Items[2].total)
}

func (s *SessionTestSuite) TestInsertMutationAppearsUnderActiveFilter() {
	s.seed(makeItems(5))

	s.session.SetExact("category", "Rods")
	s.session.CommitNow()
	s.Require().Equal(0, s.session.View().TotalItems)

	s.session.OnMutation(Insert, item{id: "new-1", name: "New Rod", category: "Rods"})

	view := s.session.View()
	s.Equal(1, view.TotalItems)
	s.Equal("new-1", view.Items[0].id)
}

func (s *SessionTestSuite) TestLoadFailureKeepsLastGoodView() {
	s.seed(makeItems(5))
	s.Require().Equal(5, s.session.View().TotalItems)

	s.mu.Lock()
	s.failing = true
	s.mu.Unlock()

	err := s.session.Refresh(context.Background())
	s.Error(err)

	view := s.session.View()
	s.Error(view.Err)
	s.Equal(5, view.TotalItems, "failed refresh keeps last good data visible")

	s.mu.Lock()
	s.failing = false
	s.mu.Unlock()
	s.Require().NoError(s.session.Refresh(context.Background()))
	s.NoError(s.session.View().Err)
}

func (s *SessionTestSuite) TestScheduledRefreshCoalescesBurst() {
	s.seed(makeItems(5))

	s.mu.Lock()
	s.backend = makeItems(8)
	s.mu.Unlock()

	// A burst of mutation events triggers one reload after the window.
	for i := 0; i < 4; i++ {
		s.session.ScheduleRefresh(context.Background())
	}
	s.settle()

	s.Equal(8, s.session.View().TotalItems)
}

func (s *SessionTestSuite) TestScheduledRefreshSurvivesFilterCommit() {
	s.seed(makeItems(1))

	s.mu.Lock()
	s.backend = makeItems(2)
	s.mu.Unlock()

	// A mutation schedules a reload; before its window elapses a list
	// request submits and flushes a filter evaluation. The reload must
	// still fire, or the mutated record never reaches the snapshot.
	s.session.ScheduleRefresh(context.Background())
	s.session.SetSearch("")
	s.session.CommitNow()

	s.settle()
	s.Equal(2, s.session.View().TotalItems,
		"a filter commit must not cancel a pending reload")
}

func (s *SessionTestSuite) TestRefreshErrorSurvivesPageAndSortChanges() {
	s.seed(makeItems(25))

	s.mu.Lock()
	s.failing = true
	s.mu.Unlock()
	s.Error(s.session.Refresh(context.Background()))

	// Paging and sorting over the stale snapshot keep the failure visible;
	// only a successful reload clears it.
	s.session.SetPage(2)
	s.Error(s.session.View().Err)
	s.session.SetSort("name", Ascending)
	s.Error(s.session.View().Err)

	s.mu.Lock()
	s.failing = false
	s.mu.Unlock()
	s.Require().NoError(s.session.Refresh(context.Background()))
	s.NoError(s.session.View().Err)
}

func (s *SessionTestSuite) TestNumberRangeZeroBoundsMatchZeroTotals() {
	items := make([]item, 0, 10)
	for i := 0; i < 10; i++ {
		total := float64(i * 7)
		items = append(items, item{
			id:    fmt.Sprintf("id-%02d", i),
			name:  fmt.Sprintf("Item %02d", i),
			total: total,
		})
	}
	s.seed(items)

	zero := 0.0
	s.session.SetNumberRange("total", &zero, &zero)
	s.session.CommitNow()

	view := s.session.View()
	s.Equal(1, view.TotalItems)
	s.Equal(float64(0), view.Items[0].total)
}

func (s *SessionTestSuite) TestDateRangeFilter() {
	items := makeItems(6)
	items[0].date = "2024-02-01"
	items[1].date = "2024-02-15"
	items[2].date = "2024-03-01"
	s.seed(items)

	s.session.SetDateRange("received", "2024-02-01", "2024-02-28")
	s.session.CommitNow()
	s.Equal(2, s.session.View().TotalItems)
}

func (s *SessionTestSuite) TestFlagFilter() {
	items := makeItems(6)
	items[2].paid = 0 // total stays 20, so it owes
	s.seed(items)

	s.session.SetFlag("outstanding", true)
	s.session.CommitNow()

	view := s.session.View()
	s.Equal(1, view.TotalItems)
	s.Equal(items[2].id, view.Items[0].id)
}

func (s *SessionTestSuite) TestChainedEditsInsideOneWindowAccumulate() {
	items := makeItems(10)
	items[2].category = "Rods"
	items[2].name = "TMT special"
	items[5].category = "Rods"
	s.seed(items)

	// Both edits land before the window elapses; the committed filter
	// must carry both.
	s.session.SetSearch("tmt")
	s.session.SetExact("category", "Rods")
	s.session.CommitNow()

	view := s.session.View()
	s.Equal(1, view.TotalItems)
	s.Equal("TMT special", view.Items[0].name)
	filter := s.session.Filter()
	s.Equal("tmt", filter.Search)
	s.Equal("Rods", filter.Exact["category"])
}

func TestSessionTestSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}
