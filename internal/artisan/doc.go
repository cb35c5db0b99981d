// Package artisan drives the host application's own tooling: `php artisan
// make:*` for models, controllers and migrations, and `composer
// dump-autoload` after registries change. Artisan always generates into the
// host's app/ tree, so the generated files are then relocated into the
// module and their namespaces rewritten.
package artisan
