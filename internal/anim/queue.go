package anim

// TaskQueue is an insertion-ordered list of pending tasks.
// It is owned by the dispatcher and only touched from the serial context.
type TaskQueue struct {
	tasks []Task
}

// NewTaskQueue creates an empty queue.
func NewTaskQueue() *TaskQueue {
	return &TaskQueue{tasks: make([]Task, 0, 16)}
}

// Push appends a task to the tail.
func (q *TaskQueue) Push(t Task) {
	q.tasks = append(q.tasks, t)
}

// Pop removes and returns the head task.
// Returns false if the queue is empty.
func (q *TaskQueue) Pop() (Task, bool) {
	if len(q.tasks) == 0 {
		return Task{}, false
	}
	t := q.tasks[0]
	// Release the params pointer held by the backing array
	q.tasks[0] = Task{}
	if len(q.tasks) == 1 {
		q.tasks = q.tasks[:0]
	} else {
		q.tasks = q.tasks[1:]
	}
	return t, true
}

// Len returns the number of pending tasks.
func (q *TaskQueue) Len() int {
	return len(q.tasks)
}

// Clear drops every pending task.
func (q *TaskQueue) Clear() {
	clear(q.tasks)
	q.tasks = q.tasks[:0]
}

// Tasks returns a copy of the pending tasks in order.
func (q *TaskQueue) Tasks() []Task {
	out := make([]Task, len(q.tasks))
	copy(out, q.tasks)
	return out
}
