package media

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces name to a plain ASCII file name that is safe to
// use on disk. Non-latin text is transliterated, directory parts and
// whitespace become underscores, anything else outside [A-Za-z0-9_.-] is
// dropped. The result may be empty.
func SecureFilename(name string) string {
	name = unidecode.Unidecode(name)
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")

	return strings.Trim(name, "._")
}
