package solver

type queueNode[T any] struct {
	value T
	next  *queueNode[T]
}

// Queue is a FIFO backed by a singly linked list.
type Queue[T any] struct {
	head *queueNode[T]
	tail *queueNode[T]
	size int
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

func (q *Queue[T]) Push(e T) {
	newNode := &queueNode[T]{value: e}
	if q.size == 0 {
		q.head = newNode
		q.tail = newNode
	} else {
		q.tail.next = newNode
		q.tail = newNode
	}
	q.size++
}

func (q *Queue[T]) Pop() T {
	if q.size == 0 {
		var zero T
		return zero
	}
	node := q.head
	q.head = q.head.next
	q.size--
	if q.size == 0 {
		q.tail = nil
	}
	return node.value
}

func (q *Queue[T]) Size() int {
	return q.size
}

// Drain pops every element in order.
func (q *Queue[T]) Drain() []T {
	out := make([]T, 0, q.size)
	for q.size > 0 {
		out = append(out, q.Pop())
	}
	return out
}
