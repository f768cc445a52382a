package service_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"

	service "github.com/okian/cinedle/internal/app"
	"github.com/okian/cinedle/internal/domain/feedback"
	"github.com/okian/cinedle/internal/domain/model"
	"github.com/okian/cinedle/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
	if code := m.Run(); code != 0 {
		os.Exit(code)
	}
	if err := goleak.Find(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	dune    = model.Entity{ID: 438631, Title: "Dune", Category: model.CategoryMovie, ReleaseDate: "2021-09-15", GenreIDs: []int{878, 12}, Rating: 7.8}
	arrival = model.Entity{ID: 329865, Title: "Arrival", Category: model.CategoryMovie, ReleaseDate: "2016-11-10", GenreIDs: []int{878, 18}, Rating: 7.6}
)

// fakeProvider serves a fixed catalogue. Popular fails failures times first
// and blocks on gate when it is non-nil.
type fakeProvider struct {
	mu           sync.Mutex
	catalogue    map[string]model.Entity
	popular      []model.Entity
	failures     int
	popularCalls int
	searchCalls  int
	gate         chan struct{}
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		catalogue: map[string]model.Entity{"dune": dune, "arrival": arrival},
		popular:   []model.Entity{dune, arrival},
	}
}

func (f *fakeProvider) Search(_ context.Context, query string, _ model.Category) (model.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if e, ok := f.catalogue[strings.ToLower(query)]; ok {
		return e, nil
	}
	return model.Entity{}, fmt.Errorf("search %q: %w", query, model.ErrNotFound)
}

func (f *fakeProvider) Resolve(ctx context.Context, query string, c model.Category) (model.Entity, error) {
	return f.Search(ctx, query, c)
}

func (f *fakeProvider) Popular(ctx context.Context, _ model.Category) ([]model.Entity, error) {
	f.mu.Lock()
	gate := f.gate
	f.popularCalls++
	fail := f.popularCalls <= f.failures
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fail {
		return nil, errors.New("provider unavailable")
	}
	return f.popular, nil
}

func (f *fakeProvider) calls() (popular, search int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.popularCalls, f.searchCalls
}

func waitReady(svc *service.Service) bool {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if svc.Ready() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return svc.Ready()
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.Category(), ShouldEqual, model.CategoryMovie)
			So(svc.Ready(), ShouldBeFalse)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})

		Convey("When starting without a provider", func() {
			err := svc.Start(context.Background())

			Convey("Then it should refuse", func() {
				So(errors.Is(err, service.ErrNoProvider), ShouldBeTrue)
			})
		})

		Convey("When comparing without a provider", func() {
			_, err := svc.Compare(context.Background(), "Dune")
			So(errors.Is(err, service.ErrNoProvider), ShouldBeTrue)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithCategory(model.CategoryTV),
			service.WithTargetWait(0),
			service.WithProvider(newFakeProvider()),
		)

		Convey("Then they should apply", func() {
			So(svc.Category(), ShouldEqual, model.CategoryTV)
			So(svc.GetStats()["category"], ShouldEqual, "tv")
		})
	})
}

func TestService_Bootstrap(t *testing.T) {
	Convey("Given a service backed by a healthy provider", t, func() {
		p := newFakeProvider()
		svc := service.New(service.WithProvider(p))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		Convey("Then the first popular record should become the target", func() {
			So(waitReady(svc), ShouldBeTrue)
			res, err := svc.Compare(context.Background(), "Dune")
			So(err, ShouldBeNil)
			So(res.Result, ShouldResemble, feedback.Result{
				Year: feedback.Exact, Genres: feedback.Exact, Rating: feedback.Exact,
				Director: feedback.Unsupported, Stars: feedback.Unsupported,
				Type: model.CategoryMovie,
			})
		})

		Convey("And starting twice should be a no-op", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)
		})
	})

	Convey("Given a provider that fails twice before answering", t, func() {
		p := newFakeProvider()
		p.failures = 2
		svc := service.New(service.WithProvider(p), service.WithFailureBackoff(10*time.Millisecond))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		Convey("Then the supervisor should restart the bootstrap until it succeeds", func() {
			So(waitReady(svc), ShouldBeTrue)
			popular, _ := p.calls()
			So(popular, ShouldEqual, 3)
		})
	})
}

func TestService_Compare(t *testing.T) {
	Convey("Given a started service with a target", t, func() {
		p := newFakeProvider()
		svc := service.New(service.WithProvider(p))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		So(waitReady(svc), ShouldBeTrue)

		Convey("When the guess differs from the target", func() {
			res, err := svc.Compare(context.Background(), "  Arrival ")

			Convey("Then each attribute should be scored", func() {
				So(err, ShouldBeNil)
				So(res.Guess.Title, ShouldEqual, "Arrival")
				So(res.Result.Year, ShouldEqual, feedback.None)
				So(res.Result.Genres, ShouldEqual, feedback.Partial)
				So(res.Result.Rating, ShouldEqual, feedback.Partial)
				So(res.Result.Director, ShouldEqual, feedback.Unsupported)
			})

			Convey("And the stats should count it", func() {
				stats := svc.GetStats()
				So(stats["comparisons"], ShouldEqual, int64(1))
				So(stats["target_set"], ShouldEqual, true)
			})
		})

		Convey("When the guess is blank", func() {
			_, err := svc.Compare(context.Background(), "   ")

			Convey("Then the provider should not be called", func() {
				So(errors.Is(err, service.ErrEmptyGuess), ShouldBeTrue)
				_, search := p.calls()
				So(search, ShouldEqual, 0)
			})
		})

		Convey("When the guess does not resolve", func() {
			_, err := svc.Compare(context.Background(), "Nope")

			Convey("Then ErrNotFound should be returned", func() {
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
				So(svc.GetStats()["not_found"], ShouldEqual, int64(1))
			})
		})

		Convey("When the same guess is compared twice", func() {
			first, err1 := svc.Compare(context.Background(), "Arrival")
			second, err2 := svc.Compare(context.Background(), "Arrival")

			Convey("Then both results should match and both should hit the provider", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldResemble, second)
				_, search := p.calls()
				So(search, ShouldEqual, 2)
			})
		})
	})
}

func TestService_CompareBeforeTarget(t *testing.T) {
	Convey("Given a service whose bootstrap is stalled", t, func() {
		p := newFakeProvider()
		p.gate = make(chan struct{})

		Convey("When the target wait is zero", func() {
			svc := service.New(service.WithProvider(p), service.WithTargetWait(0))
			So(svc.Start(context.Background()), ShouldBeNil)
			defer svc.Stop()

			_, err := svc.Compare(context.Background(), "Dune")

			Convey("Then ErrNotReady should be returned without resolving the guess", func() {
				So(errors.Is(err, service.ErrNotReady), ShouldBeTrue)
				_, search := p.calls()
				So(search, ShouldEqual, 0)
			})
		})

		Convey("When the target wait elapses", func() {
			svc := service.New(service.WithProvider(p), service.WithTargetWait(20*time.Millisecond))
			So(svc.Start(context.Background()), ShouldBeNil)
			defer svc.Stop()

			start := time.Now()
			_, err := svc.Compare(context.Background(), "Dune")

			Convey("Then ErrNotReady should be returned after the wait", func() {
				So(errors.Is(err, service.ErrNotReady), ShouldBeTrue)
				So(time.Since(start), ShouldBeGreaterThanOrEqualTo, 20*time.Millisecond)
			})
		})

		Convey("When the target arrives during the wait", func() {
			svc := service.New(service.WithProvider(p), service.WithTargetWait(3*time.Second))
			So(svc.Start(context.Background()), ShouldBeNil)
			defer svc.Stop()

			go func() {
				time.Sleep(20 * time.Millisecond)
				close(p.gate)
			}()
			res, err := svc.Compare(context.Background(), "Dune")

			Convey("Then the comparison should complete", func() {
				So(err, ShouldBeNil)
				So(res.Result.Year, ShouldEqual, feedback.Exact)
			})
		})
	})
}

func TestService_Search(t *testing.T) {
	Convey("Given a service", t, func() {
		p := newFakeProvider()
		svc := service.New(service.WithProvider(p))

		Convey("When the title exists", func() {
			e, err := svc.Search(context.Background(), "arrival", model.CategoryMovie)
			So(err, ShouldBeNil)
			So(e.ID, ShouldEqual, arrival.ID)
			So(svc.GetStats()["searches"], ShouldEqual, int64(1))
		})

		Convey("When the title is unknown", func() {
			_, err := svc.Search(context.Background(), "zzz", model.CategoryMovie)
			So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithProvider(newFakeProvider()))
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})

			Convey("And stopping again should be safe", func() {
				So(func() { svc.Stop() }, ShouldNotPanic)
			})
		})
	})
}
