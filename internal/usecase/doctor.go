package usecase

import (
	"context"
	"fmt"

	"github.com/3-lines-studio/folio/internal/core"
)

type DoctorInput struct {
	Portfolio core.Portfolio
}

type DoctorOutput struct {
	Gallery core.Gallery
	Healthy bool
	Error   error
}

// DoctorService reports how every gallery image resolves without rendering
// the page.
type DoctorService struct {
	pages *PageService
	cli   CLIOutput
}

func NewDoctorService(pages *PageService, cli CLIOutput) *DoctorService {
	return &DoctorService{
		pages: pages,
		cli:   cli,
	}
}

func (s *DoctorService) Check(ctx context.Context, input DoctorInput) DoctorOutput {
	s.cli.PrintHeader("Folio Doctor")

	profile := input.Portfolio.Profile()
	s.cli.PrintSuccess("Config loaded for %s", profile.Name())
	if profile.Email() == "" && profile.Instagram() == "" {
		s.cli.PrintWarning("No email or profile URL: the contact button has nowhere to go")
	}

	gallery, err := s.pages.BuildGallery(ctx, input.Portfolio)
	if err != nil {
		return DoctorOutput{Error: fmt.Errorf("failed to check gallery: %w", err)}
	}

	for _, tile := range gallery.Tiles {
		if tile.Fallback() {
			s.cli.PrintWarning("#%d %s: %s", tile.Index, tile.Ref, tile.Placeholder())
			continue
		}
		s.cli.PrintSuccess("#%d %s", tile.Index, tile.Ref)
	}

	broken := gallery.FallbackCount()
	if broken > 0 {
		s.cli.PrintError("%d of %d works fall back to a placeholder", broken, gallery.Len())
	} else {
		s.cli.PrintDone("%s", gallery.CountLabel())
	}

	return DoctorOutput{Gallery: gallery, Healthy: broken == 0}
}
