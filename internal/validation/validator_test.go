package validation

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type sample struct {
	Name  string `validate:"required"`
	Kind  string `validate:"oneof=movie tv"`
	Count int    `validate:"min=1"`
	Date  string `validate:"omitempty,releasedate"`
}

func TestStruct(t *testing.T) {
	Convey("Given the shared validator", t, func() {
		Convey("When the struct is valid", func() {
			err := Struct(sample{Name: "Heat", Kind: "movie", Count: 1, Date: "1995-12-15"})

			Convey("Then no error should be returned", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When several rules fail", func() {
			err := Struct(sample{Kind: "book", Count: 0, Date: "Dec 1995"})

			Convey("Then each failure should be reported", func() {
				var verr *Error
				So(errors.As(err, &verr), ShouldBeTrue)
				So(len(verr.Fields), ShouldEqual, 4)
				So(err.Error(), ShouldContainSubstring, "Name is required")
				So(err.Error(), ShouldContainSubstring, "Kind must be one of [movie tv]")
				So(err.Error(), ShouldContainSubstring, "Count must be at least 1")
				So(err.Error(), ShouldContainSubstring, "Date must look like YYYY-MM-DD")
			})
		})

		Convey("When a date carries only a year", func() {
			So(Struct(sample{Name: "x", Kind: "tv", Count: 2, Date: "1999"}), ShouldBeNil)
		})

		Convey("When a field must be a metric name", func() {
			type metricsCfg struct {
				Namespace string `validate:"metricname"`
			}

			So(Struct(metricsCfg{Namespace: "cinedle_game"}), ShouldBeNil)
			err := Struct(metricsCfg{Namespace: "cine-dle"})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "Namespace must be a valid Prometheus name")
		})

		Convey("When the validator is fetched twice", func() {
			So(Get(), ShouldEqual, Get())
		})
	})
}
