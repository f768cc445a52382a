package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRetryPolicy(t *testing.T) {
	Convey("Given a retry policy of three attempts", t, func() {
		p := retryPolicy{maxAttempts: 3, initial: 100 * time.Millisecond, max: 150 * time.Millisecond}
		b := p.backOff(context.Background())

		Convey("Then it should yield two jittered waits and stop", func() {
			first := b.NextBackOff()
			So(first, ShouldBeBetweenOrEqual, 50*time.Millisecond, 150*time.Millisecond)
			second := b.NextBackOff()
			So(second, ShouldBeBetweenOrEqual, 75*time.Millisecond, 225*time.Millisecond)
			So(b.NextBackOff(), ShouldEqual, backoff.Stop)
		})
	})

	Convey("Given a policy with a single attempt", t, func() {
		b := retryPolicy{maxAttempts: 1, initial: time.Millisecond, max: time.Millisecond}.backOff(context.Background())
		So(b.NextBackOff(), ShouldEqual, backoff.Stop)
	})
}

func TestTransient(t *testing.T) {
	Convey("Given provider errors", t, func() {
		So(transient(nil), ShouldBeFalse)
		So(transient(&StatusError{StatusCode: http.StatusBadGateway}), ShouldBeTrue)
		So(transient(&StatusError{StatusCode: http.StatusTooManyRequests}), ShouldBeTrue)
		So(transient(&StatusError{StatusCode: http.StatusNotFound}), ShouldBeFalse)
		So(transient(fmt.Errorf("%w: boom", errTransport)), ShouldBeTrue)
		So(transient(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)), ShouldBeTrue)
		So(transient(fmt.Errorf("%w: %w", ErrProvider, errDecode)), ShouldBeFalse)
		So(transient(ErrNotFound), ShouldBeFalse)
		So(transient(errors.New("other")), ShouldBeFalse)
	})
}
