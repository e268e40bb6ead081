package record

// Gender is a tag from a configured set. The zero value means no selection.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// GenderOption pairs a tag with the label shown to the user.
type GenderOption struct {
	Tag   Gender `yaml:"tag" validate:"required"`
	Label string `yaml:"label" validate:"required"`
}

// GenderSet is the ordered list of selectable genders.
type GenderSet []GenderOption

// DefaultGenders returns the two options the original API understands.
func DefaultGenders() GenderSet {
	return GenderSet{
		{Tag: Male, Label: "Male"},
		{Tag: Female, Label: "Female"},
	}
}

// Index returns the position of g in the set, or -1.
func (s GenderSet) Index(g Gender) int {
	for i, o := range s {
		if o.Tag == g {
			return i
		}
	}
	return -1
}

// Contains reports whether g is one of the configured tags.
func (s GenderSet) Contains(g Gender) bool {
	return s.Index(g) >= 0
}

// Label returns the display label for g. Unknown tags are shown verbatim.
func (s GenderSet) Label(g Gender) string {
	if i := s.Index(g); i >= 0 {
		return s[i].Label
	}
	return string(g)
}

// Next returns the tag after g, wrapping around. An unset or unknown g
// yields the first tag.
func (s GenderSet) Next(g Gender) Gender {
	if len(s) == 0 {
		return ""
	}
	return s[(s.Index(g)+1)%len(s)].Tag
}

// Prev returns the tag before g, wrapping around. An unset or unknown g
// yields the last tag.
func (s GenderSet) Prev(g Gender) Gender {
	if len(s) == 0 {
		return ""
	}
	i := s.Index(g)
	if i <= 0 {
		return s[len(s)-1].Tag
	}
	return s[i-1].Tag
}
