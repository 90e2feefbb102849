// Package taxonomy maintains the persistent, incrementally-grown topic
// graph describing everything the system has learned to categorize.
//
// The taxonomy is a single JSON document in the vault. Mutation happens
// only through the [Evolver], which interprets directive lines from the
// model's taxonomy analysis and applies them additively: entries are never
// deleted or renamed, and re-applying the same analysis is a no-op.
package taxonomy

// Taxonomy is the whole persistent document.
type Taxonomy struct {
	Topics        []Topic        `json:"topics"`
	Contexts      []Context      `json:"contexts"`
	Dependencies  []Dependency   `json:"dependencies"`
	Relationships []Relationship `json:"relationships"`
}

// Topic is a top-level topic with its subcategories.
type Topic struct {
	Name          string        `json:"name"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Subcategory groups specific items under a topic.
type Subcategory struct {
	Name      string   `json:"name"`
	Specifics []string `json:"specifics"`
}

// Context is a named conversational context with a free-text description.
type Context struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Dependency records that one topic depends on another. The (Primary,
// Secondary) pair is unique within the document.
type Dependency struct {
	Primary      string `json:"primary"`
	Secondary    string `json:"secondary"`
	Relationship string `json:"relationship"`
}

// Relationship is an undirected association between two topics.
type Relationship struct {
	Topic1       string `json:"topic1"`
	Topic2       string `json:"topic2"`
	RelationType string `json:"relationType"`
}

// New returns an empty taxonomy with all lists initialized, so the
// serialized form always carries the four top-level keys.
func New() *Taxonomy {
	return &Taxonomy{
		Topics:        []Topic{},
		Contexts:      []Context{},
		Dependencies:  []Dependency{},
		Relationships: []Relationship{},
	}
}

// AddTopicPath merges a topic path of at least two segments
// (topic/subcategory[/specific]) into the document. Missing levels are
// created; an existing specific is left alone. Returns true if anything
// changed.
func (t *Taxonomy) AddTopicPath(segments []string) bool {
	if len(segments) < 2 {
		return false
	}

	topicName, subName := segments[0], segments[1]

	var topic *Topic
	for i := range t.Topics {
		if t.Topics[i].Name == topicName {
			topic = &t.Topics[i]
			break
		}
	}

	changed := false
	if topic == nil {
		t.Topics = append(t.Topics, Topic{Name: topicName, Subcategories: []Subcategory{}})
		topic = &t.Topics[len(t.Topics)-1]
		changed = true
	}

	var sub *Subcategory
	for i := range topic.Subcategories {
		if topic.Subcategories[i].Name == subName {
			sub = &topic.Subcategories[i]
			break
		}
	}

	if sub == nil {
		topic.Subcategories = append(topic.Subcategories, Subcategory{Name: subName, Specifics: []string{}})
		sub = &topic.Subcategories[len(topic.Subcategories)-1]
		changed = true
	}

	if len(segments) >= 3 {
		specific := segments[2]
		for _, existing := range sub.Specifics {
			if existing == specific {
				return changed
			}
		}
		sub.Specifics = append(sub.Specifics, specific)
		changed = true
	}

	return changed
}

// AddContext appends a named context unless one with the same name exists.
func (t *Taxonomy) AddContext(name, description string) bool {
	for _, c := range t.Contexts {
		if c.Name == name {
			return false
		}
	}

	t.Contexts = append(t.Contexts, Context{Name: name, Description: description})
	return true
}

// AddDependency appends a dependency unless the (primary, secondary) pair
// already exists.
func (t *Taxonomy) AddDependency(primary, secondary, relationship string) bool {
	for _, d := range t.Dependencies {
		if d.Primary == primary && d.Secondary == secondary {
			return false
		}
	}

	t.Dependencies = append(t.Dependencies, Dependency{
		Primary:      primary,
		Secondary:    secondary,
		Relationship: relationship,
	})
	return true
}
