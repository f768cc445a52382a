package api

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOpError(t *testing.T) {
	Convey("Given operation errors", t, func() {
		cause := errors.New("missing query")

		Convey("When wrapping with a kind and a cause", func() {
			err := WrapKind("api.search", ErrBadRequest, cause)

			Convey("Then both should be matchable and the message ordered", func() {
				So(errors.Is(err, ErrBadRequest), ShouldBeTrue)
				So(errors.Is(err, cause), ShouldBeTrue)
				So(err.Error(), ShouldEqual, "api.search: bad request: missing query")

				var op *OpError
				So(errors.As(err, &op), ShouldBeTrue)
				So(op.Op, ShouldEqual, "api.search")
			})
		})

		Convey("When creating a bare kind", func() {
			err := NewKind("api.compare", ErrInternal)
			So(errors.Is(err, ErrInternal), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.compare: internal server error")
		})

		Convey("When wrapping a plain cause", func() {
			So(Wrap("op", nil), ShouldBeNil)
			err := Wrap("op", cause)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(errors.Is(err, ErrBadRequest), ShouldBeFalse)
			So(err.Error(), ShouldEqual, "op: missing query")
		})
	})
}
