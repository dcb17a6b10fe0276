// Package loader реализует сканер папки с изображениями (Loader).
//
// Loader периодически просматривает папку, определяет изображения по
// содержимому и публикует имя каждого подходящего файла в очередь request.
//
// Использование:
//
//	l := loader.New(loader.Config{
//	    ImageFolder:    "/data/in",
//	    AllowedFormats: imaging.ParseFormats("png,jpeg"),
//	    Queue:          "image_requests",
//	    Publisher:      publisher,
//	    Schedule:       schedule,
//	    Logger:         logger,
//	})
//
//	// Блокируется до отмены ctx
//	err := l.Run(ctx)
//
// Повторная публикация:
//
// По умолчанию Loader не помнит, что уже опубликовал. Файл, который ещё
// не успели переместить, будет опубликован снова на следующем проходе,
// и в очереди появятся дубликаты. Saver переносит это спокойно: второй
// ответ для уже перемещённого файла пропускается. С Dedup=true Loader
// хранит набор опубликованных имён и забывает имя, когда файл исчезает
// из папки.
package loader
