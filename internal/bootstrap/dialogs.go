package bootstrap

import (
	"context"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// dialogs isolates native dialogs so App can be tested without a window.
type dialogs interface {
	Directory(ctx context.Context, title, defaultDir string) (string, error)
	Notice(ctx context.Context, title, message string) error
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// nativeDialogs shows dialogs through the Wails runtime.
type nativeDialogs struct{}

func (nativeDialogs) Directory(ctx context.Context, title, defaultDir string) (string, error) {
	return wailsruntime.OpenDirectoryDialog(ctx, wailsruntime.OpenDialogOptions{
		Title:                title,
		DefaultDirectory:     defaultDir,
		CanCreateDirectories: true,
	})
}

func (nativeDialogs) Notice(ctx context.Context, title, message string) error {
	_, err := wailsruntime.MessageDialog(ctx, wailsruntime.MessageDialogOptions{
		Type:    wailsruntime.ErrorDialog,
		Title:   title,
		Message: message,
	})
	return err
}

// Confirm asks a yes/no question. Closing the dialog counts as no.
func (nativeDialogs) Confirm(ctx context.Context, title, message string) (bool, error) {
	answer, err := wailsruntime.MessageDialog(ctx, wailsruntime.MessageDialogOptions{
		Type:          wailsruntime.QuestionDialog,
		Title:         title,
		Message:       message,
		Buttons:       []string{"Yes", "No"},
		DefaultButton: "Yes",
		CancelButton:  "No",
	})
	if err != nil {
		return false, err
	}
	return answer == "Yes", nil
}
