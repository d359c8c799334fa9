package handler

import (
	"mime/multipart"
	"reflect"
	"testing"
)

func TestImageFilesOrder(t *testing.T) {
	form := &multipart.Form{File: map[string][]*multipart.FileHeader{}}
	for _, key := range []string{"image10", "image2", "avatar", "imageCover", "image0", "image1", "photo"} {
		form.File[key] = []*multipart.FileHeader{{Filename: key}}
	}

	var got []string
	for _, f := range imageFiles(form) {
		got = append(got, f.Filename)
	}
	want := []string{"image0", "image1", "image2", "image10", "imageCover"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("imageFiles order = %v, want %v", got, want)
	}
}
