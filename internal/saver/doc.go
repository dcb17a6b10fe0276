// Package saver реализует сортировщик изображений (Saver).
//
// Saver получает из очереди response сообщения "<color>/<filename>" и
// переносит файл из папки изображений в <output>/<color>/<filename>.
// Папка цвета создаётся при необходимости.
//
// Если исходного файла уже нет (другой экземпляр Saver успел его
// перенести или сообщение пришло повторно), сообщение пропускается
// с предупреждением. Перенос выполняется через rename, поэтому папка
// изображений и папка вывода должны быть на одной файловой системе.
package saver
