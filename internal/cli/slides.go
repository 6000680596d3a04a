package cli

import (
	"context"
	"fmt"

	"github.com/AbdoulayeSG/site-antigravi/internal/models"
)

func (a *App) Slides(ctx context.Context) error {
	slides, active := a.ctrl.Slides()
	if len(slides) == 0 {
		fmt.Fprintln(a.w, "Aucun slide")
		return nil
	}
	for i, s := range slides {
		mark := " "
		if i == active {
			mark = "*"
		}
		fmt.Fprintf(a.w, "%s %d. %s - %s (%s)\n", mark, i+1, s.Title, s.Description, s.Image)
	}
	return nil
}

func (a *App) SlideAdd(ctx context.Context) error {
	s, err := a.readSlide(models.Slide{})
	if err != nil {
		return err
	}
	a.ctrl.AddSlide(s)
	return nil
}

func (a *App) SlideEdit(ctx context.Context, args []string) error {
	i, err := a.indexArg(args, "slide-edit <n>")
	if err != nil {
		return err
	}
	slides, _ := a.ctrl.Slides()
	var cur models.Slide
	if i < len(slides) {
		cur = slides[i]
	}
	s, err := a.readSlide(cur)
	if err != nil {
		return err
	}
	a.ctrl.UpdateSlide(i, s)
	return nil
}

func (a *App) SlideDelete(ctx context.Context, args []string) error {
	i, err := a.indexArg(args, "slide-del <n>")
	if err != nil {
		return err
	}
	a.ctrl.RemoveSlide(i, confirmer(a.reader, a.w))
	return nil
}

func (a *App) SlideGo(ctx context.Context, args []string) error {
	i, err := a.indexArg(args, "goto <n>")
	if err != nil {
		return err
	}
	a.ctrl.GoToSlide(i)
	if s, ok := a.currentSlide(); ok {
		fmt.Fprintf(a.w, "* %s : %s\n", s.Title, s.Description)
	}
	return nil
}

func (a *App) currentSlide() (models.Slide, bool) {
	slides, active := a.ctrl.Slides()
	if active < 0 || active >= len(slides) {
		return models.Slide{}, false
	}
	return slides[active], true
}

func (a *App) readSlide(cur models.Slide) (models.Slide, error) {
	var err error
	if cur.Image, err = GetWithDefault(a.reader, "Image (URL)", cur.Image, a.w); err != nil {
		return cur, err
	}
	if cur.Title, err = GetWithDefault(a.reader, "Titre", cur.Title, a.w); err != nil {
		return cur, err
	}
	if cur.Description, err = GetWithDefault(a.reader, "Description", cur.Description, a.w); err != nil {
		return cur, err
	}
	return cur, nil
}
