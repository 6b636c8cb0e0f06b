package state

// Bucket is one value of an Index together with the pages that carry it.
type Bucket struct {
	Value string
	URLs  []string
}

// Index groups page URLs by an extracted value (a title or a description),
// remembering the order in which values were first seen.
type Index struct {
	order   []string
	buckets map[string][]string
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{buckets: make(map[string][]string)}
}

// Add appends url to the bucket for value.
func (i *Index) Add(value, url string) {
	if _, ok := i.buckets[value]; !ok {
		i.order = append(i.order, value)
	}
	i.buckets[value] = append(i.buckets[value], url)
}

// Get returns the URLs recorded under value.
func (i *Index) Get(value string) []string {
	return i.buckets[value]
}

// Len returns the number of distinct values.
func (i *Index) Len() int {
	return len(i.order)
}

// Buckets returns every bucket in first-seen order.
func (i *Index) Buckets() []Bucket {
	out := make([]Bucket, 0, len(i.order))
	for _, v := range i.order {
		out = append(out, Bucket{Value: v, URLs: append([]string(nil), i.buckets[v]...)})
	}
	return out
}

// Duplicates returns the buckets holding more than one URL, in first-seen
// order.
func (i *Index) Duplicates() []Bucket {
	var out []Bucket
	for _, b := range i.Buckets() {
		if len(b.URLs) > 1 {
			out = append(out, b)
		}
	}
	return out
}

// KeyedURLs maps a normalized key to one representative URL. A later Set
// for the same key replaces the URL but keeps the key's position.
type KeyedURLs struct {
	order  []string
	values map[string]string
}

// NewKeyedURLs creates an empty map.
func NewKeyedURLs() *KeyedURLs {
	return &KeyedURLs{values: make(map[string]string)}
}

// Set records url under key.
func (k *KeyedURLs) Set(key, url string) {
	if _, ok := k.values[key]; !ok {
		k.order = append(k.order, key)
	}
	k.values[key] = url
}

// Get returns the URL stored for key.
func (k *KeyedURLs) Get(key string) (string, bool) {
	v, ok := k.values[key]
	return v, ok
}

// Len returns the number of keys.
func (k *KeyedURLs) Len() int {
	return len(k.order)
}

// Keys returns keys in first-insertion order.
func (k *KeyedURLs) Keys() []string {
	return append([]string(nil), k.order...)
}

// Values returns the representative URLs in key order.
func (k *KeyedURLs) Values() []string {
	out := make([]string, 0, len(k.order))
	for _, key := range k.order {
		out = append(out, k.values[key])
	}
	return out
}

// AuditStats summarizes an audit for logging.
type AuditStats struct {
	PagesAnalyzed     int `json:"pages_analyzed"`
	Unreachable       int `json:"unreachable"`
	NoTitle           int `json:"no_title"`
	NoDescription     int `json:"no_description"`
	DuplicateTitles   int `json:"duplicate_titles"`
	DuplicateDescs    int `json:"duplicate_descriptions"`
	IDURLs            int `json:"id_urls"`
	ExcessiveKeywords int `json:"excessive_keywords"`
	DeepNesting       int `json:"deep_nesting"`
}
