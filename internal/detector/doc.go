// Package detector реализует классификатор изображений (Detector).
//
// Detector получает имена файлов из очереди request, считает средний цвет
// изображения, находит ближайший именованный цвет и публикует
// "<color>/<filename>" в очередь response.
//
// Ошибки отдельного сообщения (файла нет, файл не декодируется, неверное
// имя) логируются; ответ не публикуется, цикл потребления продолжается.
//
// По умолчанию сообщения подтверждаются при получении (at-most-once):
// если воркер упадёт между получением и публикацией ответа, изображение
// останется в папке до следующего прохода Loader. Prefetch в этом режиме
// не ограничен, поэтому при падении теряются все сообщения, уже
// доставленные воркеру, а не одно. ACK_MODE=after включает подтверждение
// после публикации ответа и prefetch = 1.
package detector
