package canvas

import (
	"github.com/iudanet/drawboard/internal/client/store"
	"github.com/iudanet/drawboard/internal/geometry"
	"github.com/iudanet/drawboard/internal/models"
	"github.com/iudanet/drawboard/pkg/api"
)

// Sender отправляет правки в комнату. Реализуется session.Session.
type Sender interface {
	SendCreate(shape models.Shape) error
	SendUpdate(id int64, shape models.Shape) error
	SendErase(id int64) error
}

// Controller связывает жесты пользователя с хранилищем фигур и сессией.
// Правки уходят на сервер сразу, но доска меняется только когда сервер
// вернет событие через Apply: до этого жест виден лишь в Preview.
// Не потокобезопасен: все вызовы из одной горутины (цикла событий).
type Controller struct {
	store     *store.Store
	sender    Sender
	measurer  geometry.TextMeasurer
	onRepaint func()
	drag      *dragState
}

// dragState хранит снимок фигуры на момент захвата и только последнюю
// позицию указателя: промежуточные движения схлопываются
type dragState struct {
	target store.Placed
	origin geometry.Point
	latest geometry.Point
}

// New создает контроллер. onRepaint может быть nil.
func New(st *store.Store, sender Sender, measurer geometry.TextMeasurer, onRepaint func()) *Controller {
	return &Controller{
		store:     st,
		sender:    sender,
		measurer:  measurer,
		onRepaint: onRepaint,
	}
}

// Apply применяет событие сервера к доске и запрашивает перерисовку
func (c *Controller) Apply(ev api.ServerEvent) {
	c.store.ApplyLive(ev)
	c.repaint()
}

// Commit отправляет новую фигуру. На доске она появится после эха сервера.
func (c *Controller) Commit(shape models.Shape) error {
	return c.sender.SendCreate(shape)
}

// ErasePoint удаляет верхнюю фигуру под точкой. Возвращает false
// когда под точкой пусто; это не ошибка.
func (c *Controller) ErasePoint(p geometry.Point) (bool, error) {
	hit, ok := c.store.FindAt(p, c.measurer)
	if !ok {
		return false, nil
	}
	if err := c.sender.SendErase(hit.ID); err != nil {
		return true, err
	}
	return true, nil
}

// BeginDrag захватывает верхнюю фигуру под точкой для перемещения.
// Возвращает false когда захватывать нечего.
func (c *Controller) BeginDrag(p geometry.Point) bool {
	hit, ok := c.store.FindAt(p, c.measurer)
	if !ok {
		return false
	}
	c.drag = &dragState{target: hit, origin: p, latest: p}
	return true
}

// DragTo запоминает последнюю позицию указателя и перерисовывает превью
func (c *Controller) DragTo(p geometry.Point) {
	if c.drag == nil {
		return
	}
	c.drag.latest = p
	c.repaint()
}

// EndDrag завершает перемещение: ровно один update на жест,
// нулевое смещение не отправляется
func (c *Controller) EndDrag() error {
	drag := c.drag
	if drag == nil {
		return nil
	}
	c.drag = nil

	dx := drag.latest.X - drag.origin.X
	dy := drag.latest.Y - drag.origin.Y
	if dx == 0 && dy == 0 {
		c.repaint()
		return nil
	}

	moved := geometry.Translate(drag.target.Shape, dx, dy)
	if err := c.sender.SendUpdate(drag.target.ID, moved); err != nil {
		c.repaint()
		return err
	}
	c.repaint()
	return nil
}

// Dragging reports whether a drag gesture is in progress.
func (c *Controller) Dragging() bool {
	return c.drag != nil
}

// Preview возвращает фигуры для отрисовки: состояние доски, где
// перетаскиваемая фигура показана в текущей позиции указателя
func (c *Controller) Preview() []store.Placed {
	shapes := c.store.Query()
	if c.drag == nil {
		return shapes
	}

	dx := c.drag.latest.X - c.drag.origin.X
	dy := c.drag.latest.Y - c.drag.origin.Y
	for i := range shapes {
		if shapes[i].ID == c.drag.target.ID {
			shapes[i].Shape = geometry.Translate(c.drag.target.Shape, dx, dy)
		}
	}
	return shapes
}

func (c *Controller) repaint() {
	if c.onRepaint != nil {
		c.onRepaint()
	}
}
