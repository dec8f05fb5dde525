package fileserver

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInAlphabet(t *testing.T) {
	Convey("inAlphabet", t, FailureContinues, func() {
		Convey("accepts ordinary ASCII and UTF-8 names", FailureContinues, func() {
			samples := []struct {
				input    string
				returned bool
			}{
				{"file.name", true},
				{"the space", true},
				{"Döner macht schöner.txt", true},
				{"フププ.zip", true},
			}
			for i, tuple := range samples {
				tuple.returned = inAlphabet(samples[i].input)
				So(tuple, ShouldResemble, samples[i])
			}
		})

		Convey("rejects reserved and unprintable runes", FailureContinues, func() {
			samples := []struct {
				input    string
				returned bool
			}{
				{"Samba?", false},
				{"quote\".txt", false},
				{"pipe|name.txt", false},
				{"line\nbreak", false},
				{"line break", false},
				{"paragraph break", false},
				{"a null\x00.", false},
			}
			for i, tuple := range samples {
				tuple.returned = inAlphabet(samples[i].input)
				So(tuple, ShouldResemble, samples[i])
			}
		})

		Convey("enforces NFC normalization", FailureContinues, func() {
			So(inAlphabet("säet"), ShouldBeTrue) // precomposed, already NFC
			So(inAlphabet("säet"), ShouldBeFalse) // decomposed, not NFC
		})
	})
}
