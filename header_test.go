// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hawk

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestHeaderParsing(t *testing.T) {
	valid := []struct {
		serialized   string
		deserialized map[string]string
	}{
		{`Hawk id="dh37fgj492je", ts="1353832234", nonce="j4h3g2", ext="some-app-ext-data", mac="6R4rV5iE+NPoym+WwjeHzjAGXUtLNIxmTHbFJ+YpZ8o="`,
			map[string]string{"id": "dh37fgj492je", "ts": "1353832234", "nonce": "j4h3g2",
				"ext": "some-app-ext-data", "mac": "6R4rV5iE+NPoym+WwjeHzjAGXUtLNIxmTHbFJ+YpZ8o="},
		},
		{`Hawk id="123456", ts="1353809207", nonce="Ygvqdz", hash="bsvY3IfUllw6V5rvk4tStEvpBhE=", ext="Bazinga!", mac="qbf1ZPG/r/e06F4ht+T77LXi5vw=", app="my-app", dlg="my-authority"`,
			map[string]string{"id": "123456", "ts": "1353809207", "nonce": "Ygvqdz",
				"hash": "bsvY3IfUllw6V5rvk4tStEvpBhE=", "ext": "Bazinga!",
				"mac": "qbf1ZPG/r/e06F4ht+T77LXi5vw=", "app": "my-app", "dlg": "my-authority"},
		},
		{`hawk id="1", ts="2", nonce="n", mac="m"`,
			map[string]string{"id": "1", "ts": "2", "nonce": "n", "mac": "m"},
		},
	}

	Convey("The attribute-list parser", t, func() {
		Convey("yields the attribute map for well-formed headers", func() {
			for _, row := range valid {
				attrs, err := parseHeader(row.serialized, authorizationAttributes)
				So(err, ShouldBeNil)
				So(attrs, ShouldResemble, row.deserialized)
			}
		})

		Convey("classifies each malformed input distinctly", func() {
			rows := []struct {
				given string
				kind  Kind
			}{
				{"", KindUnauthorized},
				{"Hawk " + strings.Repeat("x", MaxHeaderLength), KindHeaderLengthTooLong},
				{"Hawk", KindInvalidHeaderSyntax},
				{"hawk", KindInvalidHeaderSyntax},
				{"Hawk ", KindInvalidHeaderSyntax},
				{"!@#", KindInvalidHeaderSyntax},
				{`Digest username="mufasa"`, KindUnauthorized},
				{`Basic c2VjcmV0`, KindUnauthorized},
				{`Hawk scope="all"`, KindUnknownAttribute},
				{`Hawk id="1", id="2"`, KindDuplicateAttribute},
				{`Hawk id=""`, KindBadAttributeValue},
				{"Hawk id=\"a\tb\"", KindBadAttributeValue},
				{`Hawk id`, KindBadHeaderFormat},
				{`Hawk id=1`, KindBadHeaderFormat},
				{`Hawk id="1`, KindBadHeaderFormat},
				{`Hawk id="1";ts="2"`, KindBadHeaderFormat},
				{`Hawk id="1",`, KindBadHeaderFormat},
			}
			for _, row := range rows {
				attrs, err := parseHeader(row.given, authorizationAttributes)
				So(attrs, ShouldBeNil)
				So(err, ShouldNotBeNil)
				So(err.Kind, ShouldEqual, row.kind)
			}
		})

		Convey("names the offending attribute or character", func() {
			_, err := parseHeader(`Hawk scope="all"`, authorizationAttributes)
			So(err.Error(), ShouldContainSubstring, "Unknown attribute: scope")

			_, err = parseHeader(`Hawk id="1", id="2"`, authorizationAttributes)
			So(err.Error(), ShouldContainSubstring, "Duplicate attribute: id")

			_, err = parseHeader(`Hawk id=""`, authorizationAttributes)
			So(err.Error(), ShouldContainSubstring, `Bad attribute value: "`)
		})

		Convey("rejects keys outside the caller's vocabulary", func() {
			// id is a fine Authorization attribute, but has no place in a
			// WWW-Authenticate challenge.
			_, err := parseHeader(`Hawk id="1"`, wwwAuthenticateAttributes)
			So(err, ShouldNotBeNil)
			So(err.Kind, ShouldEqual, KindUnknownAttribute)

			attrs, err := parseHeader(`Hawk ts="1362337299", tsm="abc=", error="Stale timestamp"`, wwwAuthenticateAttributes)
			So(err, ShouldBeNil)
			So(attrs["error"], ShouldEqual, "Stale timestamp")
		})

		Convey("carries a bare scheme challenge when nothing was presented", func() {
			_, err := parseHeader("", authorizationAttributes)
			So(err, ShouldNotBeNil)
			So(err.StatusCode(), ShouldEqual, 401)
			challenge, ok := err.Challenge()
			So(ok, ShouldBeTrue)
			So(challenge, ShouldEqual, "Hawk")
		})
	})
}

func TestHeaderFormatting(t *testing.T) {
	Convey("The Authorization formatter", t, func() {
		Convey("keeps the fixed field order and separators", func() {
			a := Artifacts{ID: "123456", TS: 1353809207, Nonce: "Ygvqdz",
				Hash: "h=", Ext: "Bazinga!", MAC: "m=", App: "a", Dlg: "d"}
			So(formatRequestHeader(a), ShouldEqual,
				`Hawk id="123456", ts="1353809207", nonce="Ygvqdz", hash="h=", ext="Bazinga!", mac="m=", app="a", dlg="d"`)
		})

		Convey("omits absent optional fields entirely", func() {
			a := Artifacts{ID: "1", TS: 2, Nonce: "n", MAC: "m="}
			So(formatRequestHeader(a), ShouldEqual, `Hawk id="1", ts="2", nonce="n", mac="m="`)
		})

		Convey("round-trips through the parser", func() {
			a := Artifacts{ID: "123456", TS: 1353809207, Nonce: "Ygvqdz",
				Hash: "h=", Ext: "Bazinga!", MAC: "m=", App: "a", Dlg: "d"}
			attrs, err := parseHeader(formatRequestHeader(a), authorizationAttributes)
			So(err, ShouldBeNil)
			So(attrs, ShouldResemble, map[string]string{
				"id": "123456", "ts": "1353809207", "nonce": "Ygvqdz",
				"hash": "h=", "ext": "Bazinga!", "mac": "m=", "app": "a", "dlg": "d",
			})

			reparsed, err := parseHeader(formatRequestHeader(Artifacts{
				ID: attrs["id"], TS: 1353809207, Nonce: attrs["nonce"],
				Hash: attrs["hash"], Ext: attrs["ext"], MAC: attrs["mac"],
				App: attrs["app"], Dlg: attrs["dlg"],
			}), authorizationAttributes)
			So(err, ShouldBeNil)
			So(reparsed, ShouldResemble, attrs)
		})
	})

	Convey("The challenge formatter", t, func() {
		Convey("emits the bare scheme with nothing to say", func() {
			So(formatChallenge(nil, ""), ShouldEqual, "Hawk")
		})
		Convey("appends attribute pairs each with a trailing comma", func() {
			So(formatChallenge([][2]string{{"ts", "123"}, {"tsm", "abc="}}, "Stale timestamp"),
				ShouldEqual, `Hawk ts="123", tsm="abc=", error="Stale timestamp"`)
		})
		Convey("drops the trailing comma without an error attribute", func() {
			So(formatChallenge([][2]string{{"ts", "123"}}, ""), ShouldEqual, `Hawk ts="123"`)
		})
	})

	Convey("The header attribute escaper", t, func() {
		So(escapeHeaderAttribute(`plain`), ShouldEqual, `plain`)
		So(escapeHeaderAttribute(`say "hi"`), ShouldEqual, `say \"hi\"`)
		So(escapeHeaderAttribute(`back\slash`), ShouldEqual, `back\\slash`)
	})
}
