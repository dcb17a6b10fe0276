// Package imaging загружает изображения и считает их средний цвет.
//
// Поддерживаемые форматы: bmp, gif, jpeg, png, tiff, webp. Формат файла
// определяется по содержимому (magic bytes), расширение не учитывается.
package imaging
