package tagwire

import "go.uber.org/zap"

// DefaultTagKey is the struct tag read by the default member extractor.
const DefaultTagKey = "tagwire"

type options struct {
	logger    *zap.Logger
	members   MemberExtractor
	providers []CustomProvider
	tagKey    string
}

// Option configures a Serializer or Registry.
type Option func(*options)

func defaultOptions() options {
	return options{
		logger: zap.NewNop(),
		tagKey: DefaultTagKey,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.members == nil {
		o.members = TagExtractor{Key: o.tagKey}
	}
	return o
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMemberExtractor replaces the policy that lists a record's fields.
func WithMemberExtractor(m MemberExtractor) Option {
	return func(o *options) { o.members = m }
}

// WithCustomProvider adds a provider. Providers are consulted in the order
// added; the first to claim a type wins.
func WithCustomProvider(p CustomProvider) Option {
	return func(o *options) { o.providers = append(o.providers, p) }
}

// WithTagKey changes the struct tag key read by the default extractor.
func WithTagKey(key string) Option {
	return func(o *options) { o.tagKey = key }
}
