package tagwire

import (
	"reflect"

	"github.com/samber/lo"

	"github.com/dadrian/tagwire/internal"
)

// Member describes one serializable field of a record.
type Member struct {
	// Name is hashed to produce the field tag unless HasID is set.
	Name  string
	ID    uint64
	HasID bool
	// Index is the field path passed to reflect.Value.FieldByIndex.
	Index []int
}

// MemberExtractor decides which fields of a struct type are serialized and
// under which names, in declaration order.
type MemberExtractor interface {
	Members(t reflect.Type) ([]Member, error)
}

// TagExtractor serializes every exported field. A struct tag under Key can
// rename a field (`tagwire:"name"`), pin its hash (`tagwire:",id=42"`) or
// exclude it (`tagwire:"-"`).
type TagExtractor struct {
	Key string
}

func (x TagExtractor) Members(t reflect.Type) ([]Member, error) {
	key := x.Key
	if key == "" {
		key = DefaultTagKey
	}
	fields := lo.Filter(lo.Times(t.NumField(), t.Field), func(f reflect.StructField, _ int) bool {
		return f.IsExported() && f.Type != tupleMarkerType
	})
	members := make([]Member, 0, len(fields))
	for _, f := range fields {
		tag, err := internal.ParseFieldTag(f, key)
		if err != nil {
			return nil, err
		}
		if tag.Skip {
			continue
		}
		members = append(members, Member{Name: tag.Name, ID: tag.ID, HasID: tag.HasID, Index: f.Index})
	}
	return members, nil
}
