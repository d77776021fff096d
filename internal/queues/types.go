package queues

// Direction of a queue attachment, seen from the module.
const (
	DirInput  = "input"
	DirOutput = "output"
)

// QueueSpec is one concrete queue of an application.
type QueueSpec struct {
	Name     string `json:"inst"`
	Kind     string `json:"kind"`
	Capacity int    `json:"capacity"`
}

// Attachment binds one module slot to a queue.
type Attachment struct {
	Slot  string `json:"name"`
	Queue string `json:"inst"`
	Dir   string `json:"dir"`
}

// ModuleQueues lists the attachments of one module in the order they were
// inferred.
type ModuleQueues struct {
	Module      string
	Attachments []Attachment
}

// Result is the output of Infer. Queues are in creation order; Modules follow
// module insertion order and include modules without any attachment.
type Result struct {
	Queues  []QueueSpec
	Modules []ModuleQueues
}

// Attachments returns the attachments of the named module, or nil.
func (r *Result) Attachments(module string) []Attachment {
	for _, mq := range r.Modules {
		if mq.Module == module {
			return mq.Attachments
		}
	}
	return nil
}

// Queue returns the named queue spec.
func (r *Result) Queue(name string) (QueueSpec, bool) {
	for _, q := range r.Queues {
		if q.Name == name {
			return q, true
		}
	}
	return QueueSpec{}, false
}
