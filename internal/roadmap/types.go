package roadmap

// Topic is one stage of a roadmap with its ordered subtopics.
type Topic struct {
	Name      string   `json:"Topic_Name"`
	Subtopics []string `json:"subtopics"`
}

// Roadmap is an ordered study plan for a subject.
type Roadmap []Topic

// Subtopic returns the subtopic at (topic, sub) and whether it exists.
func (r Roadmap) Subtopic(topic, sub int) (string, bool) {
	if topic < 0 || topic >= len(r) {
		return "", false
	}
	subs := r[topic].Subtopics
	if sub < 0 || sub >= len(subs) {
		return "", false
	}
	return subs[sub], true
}

// ContentBlock is one section of a generated lesson.
type ContentBlock struct {
	Heading string `json:"heading"`
	Lesson  string `json:"lesson"`
}

// Clarification answers a learner's doubt about a subtopic.
type Clarification struct {
	Answer string `json:"answer"`
}
